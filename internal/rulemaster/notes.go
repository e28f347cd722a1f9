package rulemaster

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
)

// Recovery patterns are deliberately looser than the primary extraction
// battery: they catch phrasings the extractor passed over, which is exactly
// why the clause ended up as a general note in the first place. A recovered
// rule is only added when no structured rule of that kind already exists on
// the entry.

var (
	noteInterval  = regexp.MustCompile(`\b(\d+)\s*(gun|ay)\b[a-z ]*\b(gecmeden|dolmadan|once|icinde|ara)`)
	noteSpecialty = regexp.MustCompile(`([a-z,() ]+?)\s+uzman(?:larinca|inca|lar tarafindan)\b`)
	noteExclusion = regexp.MustCompile(`(birlikte|ayni seansta|ayni faturada)[a-z, ]*\bodenmez`)
	noteCode      = regexp.MustCompile(`\b\d{3}[.]?\d{3}\b`)

	noteExpansive = []string{"tarafindan da", "icin de", "ayrica", "ek olarak", "da odenir", "de odenir"}
)

const confRecovered = 0.6

// mineNotes scans an entry's general-note rules for recoverable sub-patterns
// and promotes them to structured rules of the matching kind.
func mineNotes(e *model.RuleMasterEntry) {
	for _, note := range e.RulesOfKind(model.KindGeneralNote) {
		folded := normalize.Fold(note.SourceText)

		if !e.HasRuleOfKind(model.KindFrequencyLimit) {
			if m := noteInterval.FindStringSubmatch(folded); m != nil {
				n, _ := strconv.Atoi(m[1])
				days := n
				if m[2] == "ay" {
					days = n * 30
				}
				if days > 0 {
					e.Rules = append(e.Rules, recovered(note, model.FrequencyParams{IntervalDays: days}))
				}
			}
		}

		if !e.HasRuleOfKind(model.KindSpecialtyRestriction) && !containsAnyCue(folded, noteExpansive) {
			if m := noteSpecialty.FindStringSubmatch(folded); m != nil {
				name := strings.TrimSpace(m[1])
				if name != "" && len(name) > 3 {
					e.Rules = append(e.Rules, recovered(note, model.SpecialtyParams{Specialties: []string{name}}))
				}
			}
		}

		if !e.HasRuleOfKind(model.KindMutualExclusion) && noteExclusion.MatchString(folded) {
			var codes []string
			for _, c := range noteCode.FindAllString(folded, -1) {
				codes = append(codes, normalize.Code(c))
			}
			if len(codes) > 0 {
				e.Rules = append(e.Rules, recovered(note, model.ExclusionParams{Codes: codes}))
			}
		}
	}
}

// recovered builds a promoted rule carrying the note's clause and provenance.
func recovered(note model.ParsedRule, params model.RuleParams) model.ParsedRule {
	return model.ParsedRule{
		Kind:              params.RuleKind(),
		SourceText:        note.SourceText,
		Params:            params,
		OriginSource:      note.OriginSource,
		FromSectionHeader: note.FromSectionHeader,
		Confidence:        confRecovered,
		Method:            model.MethodRegex,
	}
}

func containsAnyCue(s string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}
