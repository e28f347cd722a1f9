package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/sutcheck/internal/config"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
	"github.com/gyeh/sutcheck/internal/oracle"
	"github.com/gyeh/sutcheck/internal/progress"
	"github.com/gyeh/sutcheck/internal/rulemaster"
	"github.com/gyeh/sutcheck/internal/snapshot"
	"github.com/gyeh/sutcheck/internal/sources"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full extraction pipeline: load sources → oracle
// extraction (optional) → build rule master → persist snapshot.
//
// A zero-rule outcome from non-empty input is a soft warning: the run still
// returns a usable table for code matching and price/point lookups, and the
// store independently refuses to save it over a good prior snapshot.
func Run(ctx context.Context, store snapshot.Store, log zerolog.Logger, cfg *config.Config, ext oracle.Extractor, rep progress.Reporter) (*rulemaster.Result, *model.ExtractionSummary, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	totalStart := time.Now()
	runID := uuid.New().String()
	summary := &model.ExtractionSummary{RunID: runID}

	// Phase 1: Load
	rep.Report(progress.Event{Phase: progress.PhaseLoading, Message: "kaynak dosyalar okunuyor"})
	loadStart := time.Now()
	records, provs, articles, err := loadSources(cfg)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "load", Err: err}
	}
	summary.DurationLoad = time.Since(loadStart)
	log.Info().Int("sources", len(records)).Msg("sources loaded")

	// Phase 2: Oracle extraction (sequential batches, optional)
	var oracleRules map[string][]model.ParsedRule
	if ext != nil {
		oracleStart := time.Now()
		items := oracleItems(records)
		got, failures, err := oracle.ExtractAll(ctx, ext, items, rep, log)
		if err != nil {
			return nil, nil, &PipelineError{Phase: "oracle", Err: err}
		}
		oracleRules = mapOracleRules(items, got)
		summary.OracleBatches = (len(items) + oracle.BatchSize - 1) / oracle.BatchSize
		summary.OracleFailures = failures
		summary.DurationOracle = time.Since(oracleStart)
	}

	// Phase 3: Build
	rep.Report(progress.Event{Phase: progress.PhaseBuilding, Message: "kural tablosu oluşturuluyor"})
	buildStart := time.Now()
	res := rulemaster.Build(rulemaster.Input{
		Records:     records,
		Articles:    articles,
		OracleRules: oracleRules,
	}, log)
	summary.DurationBuild = time.Since(buildStart)

	fillSummary(summary, res)
	if summary.RuleCount == 0 && summary.EntryCount > 0 {
		log.Warn().Msg("no rules extracted from non-empty input; table usable for matching only")
	}

	// Phase 4: Persist
	if store != nil {
		doc := snapshot.NewDocument(runID, res, provs)
		if err := store.Save(ctx, doc); err != nil {
			if errors.Is(err, snapshot.ErrDegraded) {
				log.Warn().Err(err).Msg("snapshot not saved")
			} else {
				return nil, nil, &PipelineError{Phase: "save", Err: err}
			}
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	rep.Report(progress.Event{Phase: progress.PhaseComplete, Message: "çıkarım tamamlandı"})
	return res, summary, nil
}

// loadSources reads every configured source file.
func loadSources(cfg *config.Config) (map[model.SourceKind][]model.SourceRecord, []sources.Provenance, *sources.Articles, error) {
	records := make(map[model.SourceKind][]model.SourceRecord)
	var provs []sources.Provenance

	paths := []struct {
		path string
		kind model.SourceKind
	}{
		{cfg.EK2BPath, model.SourceEK2B},
		{cfg.EK2CPath, model.SourceEK2C},
		{cfg.EK2CCPath, model.SourceEK2CC},
		{cfg.GILPath, model.SourceGIL},
	}
	for _, p := range paths {
		if p.path == "" {
			continue
		}
		recs, prov, err := sources.LoadCSV(p.path, p.kind)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load %s: %w", p.kind, err)
		}
		records[p.kind] = recs
		provs = append(provs, prov)
	}

	var articles *sources.Articles
	if cfg.SUTPath != "" {
		a, prov, err := sources.LoadArticles(cfg.SUTPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load SUT: %w", err)
		}
		articles = a
		provs = append(provs, prov)
	}
	return records, provs, articles, nil
}

// oracleItems flattens all records carrying a description into the ordered
// oracle request form.
func oracleItems(records map[model.SourceKind][]model.SourceRecord) []oracle.Item {
	var items []oracle.Item
	for _, src := range model.AllSources {
		for _, rec := range records[src.Kind] {
			if rec.Description == "" || rec.IsHeaderOnly() {
				continue
			}
			items = append(items, oracle.Item{
				LocalIndex:  len(items),
				Code:        rec.Code,
				Source:      rec.Source,
				Description: rec.Description,
			})
		}
	}
	return items
}

// mapOracleRules re-keys oracle output from local index to normalized code,
// stamping origin source onto each rule.
func mapOracleRules(items []oracle.Item, got map[int]oracle.ItemRules) map[string][]model.ParsedRule {
	out := make(map[string][]model.ParsedRule)
	for _, it := range items {
		ir, ok := got[it.LocalIndex]
		if !ok {
			continue
		}
		code := normalize.Code(it.Code)
		for _, r := range ir.Rules {
			r.OriginSource = it.Source
			if r.SourceText == "" {
				r.SourceText = it.Description
			}
			out[code] = append(out[code], r)
		}
	}
	return out
}

func fillSummary(s *model.ExtractionSummary, res *rulemaster.Result) {
	s.EntryCount = len(res.Entries)
	s.RulesByKind = make(map[model.RuleKind]int)
	for _, e := range res.Entries {
		s.RuleCount += len(e.Rules)
		for _, r := range e.Rules {
			s.RulesByKind[r.Kind]++
		}
	}
	s.CrossRefsResolved = len(res.Resolved)
	s.CrossRefsUnresolved = len(res.Unresolved)
}
