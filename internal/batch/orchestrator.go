package batch

import (
	"fmt"

	"github.com/gyeh/sutcheck/internal/evaluate"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
	"github.com/gyeh/sutcheck/internal/progress"
)

// DefaultChunkSize keeps per-chunk work small enough to report progress at
// a useful cadence on large row sets.
const DefaultChunkSize = 2500

// Options configures one analysis run.
type Options struct {
	ChunkSize int
	Reporter  progress.Reporter
}

// Output is the complete, atomic result of one analysis run.
type Output struct {
	Results []model.ComplianceResult
	Summary *model.AnalysisSummary
}

// Run evaluates the whole row set against the rule table: chunked row-level
// evaluation with progress reports, then the cross-row passes once over the
// complete result set, then the summary fold. Results are order-identical
// and 1:1 with the input rows.
func Run(rows []model.BillingRow, entries map[string]*model.RuleMasterEntry, ec *evaluate.Context, opts Options) *Output {
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}
	if len(ec.KnownSpecialties) == 0 {
		ec.KnownSpecialties = distinctSpecialties(rows)
	}

	results := make([]model.ComplianceResult, len(rows))
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		for i := start; i < end; i++ {
			entry := entries[normalize.Code(rows[i].Code)]
			results[i] = evaluate.Row(i, &rows[i], entry, ec)
		}
		rep.Report(progress.Event{
			Phase:   progress.PhaseAnalyzing,
			Current: end,
			Total:   len(rows),
			Message: fmt.Sprintf("%d/%d satır değerlendirildi", end, len(rows)),
		})
	}

	evaluate.PostProcess(rows, results)
	summary := evaluate.Summarize(results)

	rep.Report(progress.Event{
		Phase:   progress.PhaseComplete,
		Current: len(rows),
		Total:   len(rows),
		Message: "analiz tamamlandı",
	})
	return &Output{Results: results, Summary: summary}
}

// Async carries either a full result set or a full error, never both and
// never a partial set.
type Async struct {
	Output *Output
	Err    error
}

// RunAsync executes Run on its own goroutine and delivers the outcome over
// the returned channel. Input and output cross the boundary by value; no
// mutable state is shared with the caller mid-run, and there is no partial
// result visibility. Abandoning the channel abandons the work.
func RunAsync(rows []model.BillingRow, entries map[string]*model.RuleMasterEntry, ec *evaluate.Context, opts Options) <-chan Async {
	ch := make(chan Async, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if opts.Reporter != nil {
					opts.Reporter.Report(progress.Event{Phase: progress.PhaseError, Message: fmt.Sprint(r)})
				}
				ch <- Async{Err: fmt.Errorf("analysis run failed: %v", r)}
			}
			close(ch)
		}()
		ch <- Async{Output: Run(rows, entries, ec, opts)}
	}()
	return ch
}

func distinctSpecialties(rows []model.BillingRow) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range rows {
		s := rows[i].PhysicianSpecialty
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
