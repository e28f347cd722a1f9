package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/rulemaster"
	"github.com/gyeh/sutcheck/internal/sources"
)

// DocVersion tags the snapshot document format.
const DocVersion = "sutcheck/v1"

// ErrNoSnapshot is returned by LoadLatest/LoadMetadata on an empty store.
var ErrNoSnapshot = errors.New("no rule snapshot available")

// ErrDegraded rejects saving a rule-less table over a known-good snapshot.
// A run that extracted zero rules from non-empty input is still usable for
// code matching in memory, but must not silently replace a good rule base.
var ErrDegraded = errors.New("refusing to save degraded snapshot over prior good snapshot")

// Stats are the aggregate counts stored with every snapshot.
type Stats struct {
	EntryCount        int `json:"entry_count"`
	RuleCount         int `json:"rule_count"`
	ResolvedCrossRefs int `json:"resolved_cross_refs"`
}

// Document is one versioned, persisted rule snapshot.
type Document struct {
	Version    string                            `json:"version"`
	CreatedAt  time.Time                         `json:"created_at"`
	RunID      string                            `json:"run_id"`
	Sources    []sources.Provenance              `json:"sources"`
	Entries    map[string]*model.RuleMasterEntry `json:"entries"`
	Resolved   []rulemaster.CrossRef             `json:"crossrefs_resolved"`
	Unresolved []rulemaster.CrossRef             `json:"crossrefs_unresolved"`
	Stats      Stats                             `json:"stats"`
}

// Metadata is the document header without the entry table.
type Metadata struct {
	Version   string               `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	RunID     string               `json:"run_id"`
	Sources   []sources.Provenance `json:"sources"`
	Stats     Stats                `json:"stats"`
}

// Store persists rule snapshots. Both implementations enforce the degraded-
// save guard, so the extractor core stays pure and unaware of it.
type Store interface {
	Save(ctx context.Context, doc *Document) error
	LoadLatest(ctx context.Context) (*Document, error)
	LoadMetadata(ctx context.Context) (*Metadata, error)
}

// NewDocument assembles a snapshot from a build result.
func NewDocument(runID string, res *rulemaster.Result, provs []sources.Provenance) *Document {
	ruleCount := 0
	for _, e := range res.Entries {
		ruleCount += len(e.Rules)
	}
	return &Document{
		Version:    DocVersion,
		CreatedAt:  time.Now().UTC(),
		RunID:      runID,
		Sources:    provs,
		Entries:    res.Entries,
		Resolved:   res.Resolved,
		Unresolved: res.Unresolved,
		Stats: Stats{
			EntryCount:        len(res.Entries),
			RuleCount:         ruleCount,
			ResolvedCrossRefs: len(res.Resolved),
		},
	}
}

// checkDegraded applies the save guard given the prior snapshot's metadata
// (nil when the store is empty).
func checkDegraded(doc *Document, prior *Metadata) error {
	if doc.Stats.RuleCount > 0 {
		return nil
	}
	nonEmptyInput := false
	for _, p := range doc.Sources {
		if p.RowCount > 0 {
			nonEmptyInput = true
			break
		}
	}
	if nonEmptyInput && prior != nil && prior.Stats.RuleCount > 0 {
		return ErrDegraded
	}
	return nil
}
