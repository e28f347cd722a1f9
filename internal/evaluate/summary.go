package evaluate

import "github.com/gyeh/sutcheck/internal/model"

// Summarize folds a result set into per-status and per-violation-kind
// counts. Pure: no side effects, safe to call repeatedly.
func Summarize(results []model.ComplianceResult) *model.AnalysisSummary {
	s := &model.AnalysisSummary{
		TotalRows:        len(results),
		ViolationsByKind: make(map[model.RuleKind]int),
	}
	for i := range results {
		r := &results[i]
		switch r.Status {
		case model.StatusCompliant:
			s.Compliant++
		case model.StatusNonCompliant:
			s.NonCompliant++
		case model.StatusNeedsReview:
			s.NeedsReview++
		case model.StatusUnmatched:
			s.Unmatched++
		}
		if r.Entry != nil {
			s.Matched++
		}
		s.TotalViolations += len(r.Violations)
		for _, v := range r.Violations {
			s.ViolationsByKind[v.Kind]++
		}
	}
	return s
}
