package rulemaster

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/gyeh/sutcheck/internal/extract"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/sources"
)

// Input carries everything one build run consumes.
type Input struct {
	// Records holds the parsed record set per regulatory source.
	Records map[model.SourceKind][]model.SourceRecord

	// Articles is the indexed SUT legislation text; may be nil.
	Articles *sources.Articles

	// OracleRules maps normalized procedure code to oracle-extracted rules.
	// May be nil/empty: codes absent here fall back entirely to regex output.
	OracleRules map[string][]model.ParsedRule
}

// Result is the built rule master plus cross-reference bookkeeping.
type Result struct {
	Entries    map[string]*model.RuleMasterEntry
	Resolved   []CrossRef
	Unresolved []CrossRef
}

// Build produces one RuleMasterEntry per normalized procedure code from all
// available sources, then resolves cross-references, inherits section
// headers, mines general notes, and merges oracle rules.
func Build(in Input, log zerolog.Logger) *Result {
	entries := make(map[string]*model.RuleMasterEntry)

	// Sources are merged in fixed precedence order so price/point fields
	// prefer EK-2C > EK-2B > GIL > EK-2Ç; descriptions are kept side by
	// side, never overwritten.
	kinds := make([]model.SourceKind, 0, len(in.Records))
	for kind := range in.Records {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return model.SourcePrecedence(kinds[i]) < model.SourcePrecedence(kinds[j])
	})

	for _, kind := range kinds {
		records := in.Records[kind]
		if kind == model.SourceGIL {
			records = inheritSectionHeaders(records)
		}
		for _, rec := range records {
			if rec.IsHeaderOnly() {
				continue
			}
			mergeRecord(entries, rec)
		}
	}

	// Regex extraction per source description, then oracle merge: a regex
	// rule is added only when the oracle produced no rule of that kind for
	// the same code.
	for code, e := range entries {
		oracle := in.OracleRules[code]
		oracleKinds := make(map[model.RuleKind]bool, len(oracle))
		for _, r := range oracle {
			oracleKinds[r.Kind] = true
		}
		e.Rules = append(e.Rules, oracle...)

		for _, src := range e.Sources {
			desc := e.Descriptions[src]
			if desc == "" {
				continue
			}
			fromHeader := src == model.SourceGIL && desc == e.SectionHeader
			for _, r := range extract.Rules(desc, src) {
				if oracleKinds[r.Kind] {
					continue
				}
				r.FromSectionHeader = fromHeader
				e.Rules = append(e.Rules, r)
			}
		}
	}

	for _, e := range entries {
		mineNotes(e)
	}

	res := &Result{Entries: entries}
	resolveCrossRefs(res, in.Articles, log)

	log.Info().
		Int("entries", len(entries)).
		Int("crossrefs_resolved", len(res.Resolved)).
		Int("crossrefs_unresolved", len(res.Unresolved)).
		Msg("rule master built")
	return res
}

// mergeRecord folds one source record into the entry table. Records arrive
// in precedence order, so the first source to supply a point/price value
// wins; later sources only fill gaps.
func mergeRecord(entries map[string]*model.RuleMasterEntry, rec model.SourceRecord) {
	e, ok := entries[rec.Code]
	if !ok {
		e = &model.RuleMasterEntry{
			Code:         rec.Code,
			Name:         rec.Name,
			Descriptions: make(map[model.SourceKind]string),
		}
		entries[rec.Code] = e
	}
	if e.Name == "" {
		e.Name = rec.Name
	}
	if !e.HasSource(rec.Source) {
		e.Sources = append(e.Sources, rec.Source)
	}
	if rec.Description != "" {
		e.Descriptions[rec.Source] = rec.Description
	}
	if rec.GroupLabel != "" {
		e.GroupLabels = appendUnique(e.GroupLabels, rec.GroupLabel)
	}
	if rec.SectionHeader != "" && e.SectionHeader == "" {
		e.SectionHeader = rec.SectionHeader
	}

	// GIL point values are kept separately next to the price-list value.
	if rec.Source == model.SourceGIL {
		if rec.Points != nil && e.GILPoints == nil {
			e.GILPoints = rec.Points
		}
	}
	if rec.Points != nil && e.Points == nil {
		e.Points = rec.Points
	}
	if rec.Price != nil && e.Price == nil {
		e.Price = rec.Price
	}
}

// inheritSectionHeaders folds header-only rows of the general-procedures
// source into the rows that follow them: a row without its own description
// inherits the nearest preceding header's text.
func inheritSectionHeaders(records []model.SourceRecord) []model.SourceRecord {
	out := make([]model.SourceRecord, 0, len(records))
	var header string
	for _, rec := range records {
		if rec.IsHeaderOnly() {
			header = rec.Name
			continue
		}
		if header != "" {
			rec.SectionHeader = header
			if rec.Description == "" {
				rec.Description = header
			}
		}
		out = append(out, rec)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
