package extract

import (
	"strconv"
	"strings"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
)

// Confidence assigned per extracted kind. Rules below the evaluator's 0.7
// review threshold only ever downgrade a verdict to NEEDS_REVIEW.
const (
	confTier      = 0.9
	confSpecialty = 0.85
	confExclusion = 0.9
	confFrequency = 0.85
	confDiagnosis = 0.8
	confAge       = 0.85
	confDental    = 0.7
	confNote      = 0.4
)

// Rules extracts all structured rules from one regulatory description.
// The description is split into clauses; each clause is matched against the
// pattern batteries on a case/diacritic-normalized copy while the verbatim
// clause is kept as the rule's SourceText.
func Rules(desc string, src model.SourceKind) []model.ParsedRule {
	var out []model.ParsedRule
	for _, clause := range SplitClauses(desc) {
		folded := normalize.Fold(clause)
		if folded == "" {
			continue
		}

		structured := false
		add := func(params model.RuleParams, conf float64) {
			out = append(out, model.ParsedRule{
				Kind:         params.RuleKind(),
				SourceText:   clause,
				Params:       params,
				OriginSource: src,
				Confidence:   conf,
				Method:       model.MethodRegex,
			})
			structured = true
		}

		if p, ok := tierRule(folded); ok {
			add(p, confTier)
		}
		if p, ok := specialtyRule(folded); ok {
			add(p, confSpecialty)
		}
		if p, ok := exclusionRule(folded); ok {
			add(p, confExclusion)
		}
		if p, ok := frequencyRule(folded); ok {
			add(p, confFrequency)
		}
		if p, ok := diagnosisRule(folded); ok {
			add(p, confDiagnosis)
		}
		if p, ok := ageRule(folded); ok {
			add(p, confAge)
		}
		if p, ok := dentalRule(folded); ok {
			add(p, confDental)
		}

		if !structured && isNoteworthy(folded) {
			add(model.NoteParams{Text: clause}, confNote)
		}
	}
	return out
}

// TierHint re-runs the tier battery over arbitrary text. The evaluator uses
// it to recover a tier restriction buried inside a general-note rule.
func TierHint(text string) (model.TierParams, bool) {
	return tierRule(normalize.Fold(text))
}

func containsAny(s string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

// tierRule extracts an institution-tier eligibility restriction. Clauses that
// mention a tier only to attach a price increment ("3. basamakta %30 ilave")
// are not restrictions and are suppressed.
func tierRule(folded string) (model.TierParams, bool) {
	var tiers []int
	seen := map[int]bool{}
	for _, m := range tierNumeral.FindAllStringSubmatch(folded, -1) {
		n, _ := strconv.Atoi(m[1])
		if !seen[n] {
			seen[n] = true
			tiers = append(tiers, n)
		}
	}
	for _, m := range tierOrdinal.FindAllStringSubmatch(folded, -1) {
		n := ordinalTiers[m[1]]
		if n != 0 && !seen[n] {
			seen[n] = true
			tiers = append(tiers, n)
		}
	}
	if len(tiers) == 0 {
		return model.TierParams{}, false
	}
	if !containsAny(folded, tierRestrictionCues) {
		return model.TierParams{}, false
	}
	if containsAny(folded, tierIncrementCues) {
		return model.TierParams{}, false
	}

	mode := model.TierExact
	if tierAtLeast.MatchString(folded) {
		mode = model.TierAtLeast
	}
	return model.TierParams{Tiers: tiers, Mode: mode}, true
}

// specialtyRule extracts an allowed-specialty restriction. Expansive phrasing
// ("X uzmani tarafindan da yapilabilir") adds a specialty instead of
// narrowing to it and is dropped rather than recorded.
func specialtyRule(folded string) (model.SpecialtyParams, bool) {
	if containsAny(folded, expansiveCues) {
		return model.SpecialtyParams{}, false
	}
	m := specialtyPattern.FindStringSubmatch(folded)
	if m == nil {
		return model.SpecialtyParams{}, false
	}
	phrase := strings.TrimSpace(m[1])
	for _, noise := range specialtyLeadNoise {
		phrase = strings.TrimSpace(strings.TrimPrefix(phrase, noise))
	}
	if phrase == "" {
		return model.SpecialtyParams{}, false
	}

	// "ve" joins words inside a single specialty name ("kadin hastaliklari
	// ve dogum"); only commas and "veya" separate alternatives.
	var specs []string
	for _, part := range strings.Split(phrase, ",") {
		for _, alt := range strings.Split(part, " veya ") {
			if alt = strings.TrimSpace(alt); alt != "" {
				specs = append(specs, alt)
			}
		}
	}
	if len(specs) == 0 {
		return model.SpecialtyParams{}, false
	}
	return model.SpecialtyParams{Specialties: specs}, true
}

// exclusionRule extracts a "cannot be billed together" conflict: either an
// explicit code list or a wildcard over every other code in the session.
func exclusionRule(folded string) (model.ExclusionParams, bool) {
	if !exclusionCue.MatchString(folded) {
		return model.ExclusionParams{}, false
	}

	var codes []string
	for _, c := range codePattern.FindAllString(folded, -1) {
		codes = append(codes, normalize.Code(c))
	}

	p := model.ExclusionParams{
		Codes:         codes,
		SameToothOnly: sameTooth.MatchString(folded),
	}
	if len(codes) == 0 {
		if !exclusionWildcard.MatchString(folded) {
			return model.ExclusionParams{}, false
		}
		p.Wildcard = true
	}
	return p, true
}

// frequencyRule extracts either a minimum-interval limit ("en az 180 gun
// arayla") or a count-per-period limit ("yilda en fazla 2 kez"). A month
// interval with an explicit day count in parentheses re-derives the true
// day unit from the day count: 6 months and 180 days are not equivalent.
func frequencyRule(folded string) (model.FrequencyParams, bool) {
	scope := model.FrequencyParams{
		SameSpecialty: sameSpecialty.MatchString(folded),
		SameTooth:     sameTooth.MatchString(folded),
	}

	deparen := strings.Join(strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(folded)), " ")
	if m := freqInterval.FindStringSubmatch(deparen); m != nil {
		n, _ := strconv.Atoi(m[1])
		days := n * intervalUnitDays[m[2]]
		if em := freqExplicitDays.FindStringSubmatch(folded); em != nil {
			for _, g := range em[1:] {
				if g != "" {
					days, _ = strconv.Atoi(g)
				}
			}
		}
		if days > 0 {
			scope.IntervalDays = days
			return scope, true
		}
	}

	if m := freqCount.FindStringSubmatch(folded); m != nil {
		count := numberWords[m[2]]
		if count == 0 {
			count, _ = strconv.Atoi(m[2])
		}
		if count > 0 {
			scope.MaxCount = count
			scope.Per = model.Period(periodsByWord[m[1]])
			return scope, true
		}
	}
	return model.FrequencyParams{}, false
}

// diagnosisRule extracts ICD-10 codes required near a "tani" mention.
func diagnosisRule(folded string) (model.DiagnosisParams, bool) {
	if !diagnosisCue.MatchString(folded) {
		return model.DiagnosisParams{}, false
	}
	var codes []string
	for _, m := range icd10Pattern.FindAllStringSubmatch(folded, -1) {
		codes = append(codes, strings.ToUpper(m[1]))
	}
	if len(codes) == 0 {
		return model.DiagnosisParams{}, false
	}
	return model.DiagnosisParams{Codes: codes}, true
}

// ageRule extracts an allowed patient-age range, inclusive on both bounds.
// The same expansive-phrase suppression as specialtyRule applies.
func ageRule(folded string) (model.AgeParams, bool) {
	if containsAny(folded, expansiveCues) {
		return model.AgeParams{}, false
	}
	if m := ageBetween.FindStringSubmatch(folded); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return model.AgeParams{MinAge: &lo, MaxAge: &hi}, true
	}
	if m := ageUnder.FindStringSubmatch(folded); m != nil {
		n, _ := strconv.Atoi(m[1])
		hi := n - 1
		return model.AgeParams{MaxAge: &hi}, true
	}
	if m := ageOver.FindStringSubmatch(folded); m != nil {
		n, _ := strconv.Atoi(m[1])
		return model.AgeParams{MinAge: &n}, true
	}
	return model.AgeParams{}, false
}

func dentalRule(folded string) (model.DentalParams, bool) {
	if !dentalCue.MatchString(folded) {
		return model.DentalParams{}, false
	}
	return model.DentalParams{}, true
}

// isNoteworthy reports whether an unstructured clause still carries
// regulatory context worth keeping as a general note.
func isNoteworthy(folded string) bool {
	return len(folded) >= 15 && containsAny(folded, noteCues)
}
