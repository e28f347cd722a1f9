package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/progress"
)

// ErrAuthFailed marks an invalid or expired oracle credential. It is fatal
// for the whole extraction run, unlike a malformed reply, which only costs
// its own batch.
var ErrAuthFailed = errors.New("oracle credential invalid or expired")

// BatchSize is the number of descriptions per oracle request. Requests are
// issued strictly sequentially with InterBatchPause between them to respect
// the service's rate limits; batches are never in flight concurrently.
const (
	BatchSize       = 15
	InterBatchPause = time.Second
)

// Item is one description submitted for oracle extraction.
type Item struct {
	LocalIndex  int              `json:"localIndex"`
	Code        string           `json:"code"`
	Source      model.SourceKind `json:"source"`
	Description string           `json:"description"`
}

// ItemRules is the oracle's structured answer for one item.
type ItemRules struct {
	Rules       []model.ParsedRule
	CrossRefs   []string
	Explanation string
}

// Extractor performs a single batched oracle request. Implementations must
// return ErrAuthFailed (wrapped or bare) on credential rejection.
type Extractor interface {
	ExtractBatch(ctx context.Context, items []Item) (map[int]ItemRules, error)
}

// ExtractAll runs the full item set through the extractor in sequential
// batches. A failed batch (malformed reply, transient error) contributes no
// rules and the run continues; an auth failure aborts immediately.
func ExtractAll(ctx context.Context, ext Extractor, items []Item, rep progress.Reporter, log zerolog.Logger) (map[int]ItemRules, int, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	all := make(map[int]ItemRules, len(items))
	failures := 0
	total := (len(items) + BatchSize - 1) / BatchSize

	for start := 0; start < len(items); start += BatchSize {
		end := start + BatchSize
		if end > len(items) {
			end = len(items)
		}
		batchNo := start/BatchSize + 1

		got, err := ext.ExtractBatch(ctx, items[start:end])
		if err != nil {
			if errors.Is(err, ErrAuthFailed) {
				return nil, failures, fmt.Errorf("oracle batch %d: %w", batchNo, err)
			}
			// Recoverable: this batch's items keep empty rule sets.
			failures++
			log.Warn().Err(err).Int("batch", batchNo).Msg("oracle batch failed, continuing")
		} else {
			for idx, rules := range got {
				all[idx] = rules
			}
		}

		rep.Report(progress.Event{
			Phase:   progress.PhaseOracle,
			Current: batchNo,
			Total:   total,
			Message: fmt.Sprintf("oracle batch %d/%d", batchNo, total),
		})

		if end < len(items) {
			select {
			case <-ctx.Done():
				return all, failures, ctx.Err()
			case <-time.After(InterBatchPause):
			}
		}
	}
	return all, failures, nil
}
