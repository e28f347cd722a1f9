package evaluate

import (
	"fmt"
	"strings"

	"github.com/gyeh/sutcheck/internal/extract"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/specialty"
)

// Violation codes, stable identifiers for downstream filtering/export.
const (
	VioTier      = "TIER_RESTRICTION"
	VioSpecialty = "SPECIALTY_RESTRICTION"
	VioExclusion = "MUTUAL_EXCLUSION"
	VioFrequency = "FREQUENCY_LIMIT"
	VioDiagnosis = "DIAGNOSIS_CONDITION"
	VioAge       = "AGE_RESTRICTION"
	VioDental    = "DENTAL_TOOTH_MISSING"
	VioDuplicate = "DUPLICATE_OPERATION"
)

// reviewThreshold: a verdict backed only by rules below this confidence is
// classified NEEDS_REVIEW instead of NON_COMPLIANT.
const reviewThreshold = 0.7

// Context carries the run-wide read-only inputs every row evaluation needs.
type Context struct {
	Institution model.InstitutionInfo
	Matcher     *specialty.Matcher

	// KnownSpecialties is the distinct physician-specialty set observed in
	// the dataset; a rule specialty matching none of them is billed data
	// quality, not a row-level breach.
	KnownSpecialties []string
}

// Row evaluates one billing row against its matched rule entry. Pure: no
// state survives the call. Frequency-limit rules are deferred to the
// cross-row post-processor; everything else is checked here.
func Row(idx int, row *model.BillingRow, entry *model.RuleMasterEntry, ec *Context) model.ComplianceResult {
	res := model.ComplianceResult{
		RowIndex:   idx,
		Status:     model.StatusCompliant,
		Confidence: model.ConfidenceHigh,
		Entry:      entry,
	}

	// A row without a rule record cannot be evaluated further.
	if entry == nil {
		res.Status = model.StatusUnmatched
		res.Confidence = model.ConfidenceLow
		return res
	}

	res.PointsDelta = delta(row.BilledPoints, entry.Points)
	res.PriceDelta = delta(row.BilledPrice, entry.Price)

	var anyHighConf, anyHardKind, diagnosisFired bool
	add := func(rule model.ParsedRule, code, explanation string, kind model.RuleKind) {
		res.Violations = append(res.Violations, model.Violation{
			Code:              code,
			Explanation:       explanation,
			Source:            rule.OriginSource,
			SourceText:        rule.SourceText,
			Kind:              kind,
			FromSectionHeader: rule.FromSectionHeader,
		})
		if rule.Confidence >= reviewThreshold {
			anyHighConf = true
		}
		switch kind {
		case model.KindTierRestriction, model.KindMutualExclusion,
			model.KindSpecialtyRestriction, model.KindAgeRestriction:
			anyHardKind = true
		}
	}

	for _, rule := range entry.Rules {
		switch p := rule.Params.(type) {
		case model.TierParams:
			if !tierAllowed(p, ec.Institution.Tier) {
				add(rule, VioTier, tierExplanation(p, ec.Institution.Tier), model.KindTierRestriction)
			}

		case model.SpecialtyParams:
			if row.PhysicianSpecialty == "" {
				break
			}
			if specialtyAllowed(p, row.PhysicianSpecialty, ec.Matcher) {
				break
			}
			// A rule specialty matching nothing in the whole dataset means
			// the feed uses a different vocabulary for it; that is data
			// quality, not a row-level breach.
			if len(ec.KnownSpecialties) > 0 && !anyKnownMatches(p, ec.KnownSpecialties, ec.Matcher) {
				break
			}
			add(rule, VioSpecialty,
				fmt.Sprintf("işlem yalnızca %s tarafından faturalanabilir; faturalayan branş: %s",
					strings.Join(p.Specialties, ", "), row.PhysicianSpecialty),
				model.KindSpecialtyRestriction)

		case model.ExclusionParams:
			// Requires session context; handled by the cross-row pass.

		case model.FrequencyParams:
			// Requires the full row set; handled by the cross-row pass.

		case model.DiagnosisParams:
			if !diagnosisSatisfied(p, row.DiagnosisCode) {
				add(rule, VioDiagnosis,
					fmt.Sprintf("işlem %s tanı kodlarından birini gerektirir", strings.Join(p.Codes, ", ")),
					model.KindDiagnosisCondition)
				diagnosisFired = true
			}

		case model.AgeParams:
			if row.PatientAge == nil {
				break
			}
			age := int(*row.PatientAge)
			if (p.MinAge != nil && age < *p.MinAge) || (p.MaxAge != nil && age > *p.MaxAge) {
				add(rule, VioAge,
					fmt.Sprintf("hasta yaşı %d kural yaş aralığının dışında", age),
					model.KindAgeRestriction)
			}

		case model.DentalParams:
			if row.ToothNo == nil || *row.ToothNo == "" {
				add(rule, VioDental, "diş tedavisi işlemi için diş numarası kayıtlı değil", model.KindDentalTreatment)
			}

		case model.NoteParams:
			// A tier restriction can hide inside an unstructured note.
			if tp, ok := extract.TierHint(p.Text); ok && !tierAllowed(tp, ec.Institution.Tier) {
				add(rule, VioTier, tierExplanation(tp, ec.Institution.Tier), model.KindTierRestriction)
			}
		}
	}

	res.Status = classify(len(res.Violations), anyHighConf, anyHardKind)
	if len(entry.Rules) == 0 || diagnosisFired {
		res.Confidence = model.ConfidenceMedium
	}
	return res
}

// classify maps the violation profile to a status: violations backed only by
// low-confidence rules always go to review; hard kinds are non-compliant.
func classify(violations int, anyHighConf, anyHardKind bool) model.ComplianceStatus {
	switch {
	case violations == 0:
		return model.StatusCompliant
	case !anyHighConf:
		return model.StatusNeedsReview
	case anyHardKind:
		return model.StatusNonCompliant
	default:
		return model.StatusNeedsReview
	}
}

func tierAllowed(p model.TierParams, tier int) bool {
	if len(p.Tiers) == 0 || tier == 0 {
		return true
	}
	if p.Mode == model.TierAtLeast {
		return tier >= minTier(p.Tiers)
	}
	for _, t := range p.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

func minTier(tiers []int) int {
	lo := tiers[0]
	for _, t := range tiers[1:] {
		if t < lo {
			lo = t
		}
	}
	return lo
}

func tierExplanation(p model.TierParams, tier int) string {
	if p.Mode == model.TierAtLeast {
		return fmt.Sprintf("işlem %d. basamak ve üzeri kurumlarda yapılabilir; kurum basamağı: %d", minTier(p.Tiers), tier)
	}
	return fmt.Sprintf("işlem yalnızca %s basamak kurumlarda yapılabilir; kurum basamağı: %d", tierList(p.Tiers), tier)
}

func tierList(tiers []int) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = fmt.Sprintf("%d.", t)
	}
	return strings.Join(parts, " ve ")
}

func specialtyAllowed(p model.SpecialtyParams, physicianSpecialty string, m *specialty.Matcher) bool {
	for _, allowed := range p.Specialties {
		if m.Matches(physicianSpecialty, allowed) {
			return true
		}
	}
	return false
}

func anyKnownMatches(p model.SpecialtyParams, known []string, m *specialty.Matcher) bool {
	for _, k := range known {
		if specialtyAllowed(p, k, m) {
			return true
		}
	}
	return false
}

// diagnosisSatisfied treats an absent diagnosis as unsatisfied; diagnosis
// data is unreliable in the feed, so the resulting violation downgrades the
// verdict confidence instead of hardening the status.
func diagnosisSatisfied(p model.DiagnosisParams, diag *string) bool {
	if len(p.Codes) == 0 {
		return true
	}
	if diag == nil || *diag == "" {
		return false
	}
	d := strings.ToUpper(strings.TrimSpace(*diag))
	for _, c := range p.Codes {
		if d == c || strings.HasPrefix(d, c+".") || strings.HasPrefix(c, d+".") {
			return true
		}
	}
	return false
}

func delta(billed, ref *float64) *float64 {
	if billed == nil || ref == nil {
		return nil
	}
	d := *billed - *ref
	return &d
}
