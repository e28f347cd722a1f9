package evaluate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
)

// maxNamedConflicts caps how many conflicting codes a violation names
// before collapsing the rest into a "+N more" note.
const maxNamedConflicts = 5

// PostProcess runs the two whole-set passes that single-row evaluation
// cannot perform: same-session mutual-exclusion conflicts and periodic
// frequency limits. Results are amended in place, order untouched.
func PostProcess(rows []model.BillingRow, results []model.ComplianceResult) {
	sessionPass(rows, results)
	frequencyPass(rows, results)
}

// sessionPass groups rows by patient+date and checks every mutual-exclusion
// rule against the other rows of the same session.
func sessionPass(rows []model.BillingRow, results []model.ComplianceResult) {
	sessions := make(map[string][]int)
	for i := range rows {
		sessions[rows[i].SessionKey()] = append(sessions[rows[i].SessionKey()], i)
	}

	for i := range rows {
		entry := results[i].Entry
		if entry == nil {
			continue
		}
		session := sessions[rows[i].SessionKey()]
		if len(session) < 2 {
			continue
		}

		for _, rule := range entry.RulesOfKind(model.KindMutualExclusion) {
			p, ok := rule.Params.(model.ExclusionParams)
			if !ok {
				continue
			}
			conflicts := conflictingCodes(rows, i, session, p)
			if len(conflicts) == 0 {
				continue
			}

			named := conflicts
			extra := 0
			if len(named) > maxNamedConflicts {
				extra = len(named) - maxNamedConflicts
				named = named[:maxNamedConflicts]
			}
			expl := fmt.Sprintf("aynı seansta birlikte faturalanamayacak işlemler: %s", strings.Join(named, ", "))
			if extra > 0 {
				expl += fmt.Sprintf(" (+%d işlem daha)", extra)
			}

			results[i].Violations = append(results[i].Violations, model.Violation{
				Code:              VioExclusion,
				Explanation:       expl,
				Source:            rule.OriginSource,
				SourceText:        rule.SourceText,
				Kind:              model.KindMutualExclusion,
				FromSectionHeader: rule.FromSectionHeader,
			})
			if results[i].Status == model.StatusCompliant {
				results[i].Status = model.StatusNonCompliant
			}
		}
	}
}

// conflictingCodes returns the distinct other-row codes in the session that
// the exclusion rule forbids next to row i.
func conflictingCodes(rows []model.BillingRow, i int, session []int, p model.ExclusionParams) []string {
	ownCode := normalize.Code(rows[i].Code)
	targets := make(map[string]bool, len(p.Codes))
	for _, c := range p.Codes {
		targets[normalize.Code(c)] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, j := range session {
		if j == i {
			continue
		}
		otherCode := normalize.Code(rows[j].Code)
		if otherCode == ownCode {
			continue
		}
		if !p.Wildcard && !targets[otherCode] {
			continue
		}
		if p.SameToothOnly && !sameToothPair(&rows[i], &rows[j]) {
			continue
		}
		if !seen[otherCode] {
			seen[otherCode] = true
			out = append(out, otherCode)
		}
	}
	sort.Strings(out)
	return out
}

func sameToothPair(a, b *model.BillingRow) bool {
	if a.ToothNo == nil || b.ToothNo == nil {
		return false
	}
	return *a.ToothNo != "" && *a.ToothNo == *b.ToothNo
}

// frequencyPass groups rows by frequency key and flags rows billed beyond a
// count limit's period bucket or closer than an interval limit's minimum
// gap. Exempt codes bypass the pass entirely.
func frequencyPass(rows []model.BillingRow, results []model.ComplianceResult) {
	type dated struct {
		idx  int
		date time.Time
	}

	byPatientCode := make(map[string][]int)
	for i := range rows {
		key := rows[i].PatientID + "|" + normalize.Code(rows[i].Code)
		byPatientCode[key] = append(byPatientCode[key], i)
	}

	flag := func(i int, rule model.ParsedRule, expl string) {
		results[i].Violations = append(results[i].Violations, model.Violation{
			Code:              VioFrequency,
			Explanation:       expl,
			Source:            rule.OriginSource,
			SourceText:        rule.SourceText,
			Kind:              model.KindFrequencyLimit,
			FromSectionHeader: rule.FromSectionHeader,
		})
		if results[i].Status == model.StatusCompliant {
			results[i].Status = model.StatusNeedsReview
		}
	}

	for _, group := range byPatientCode {
		first := group[0]
		code := normalize.Code(rows[first].Code)

		if code == SameOperationDuplicateCode {
			flagDuplicateOperations(rows, results, group)
		}
		if _, exempt := FrequencyExemptCodes[code]; exempt {
			continue
		}
		entry := results[first].Entry
		if entry == nil {
			continue
		}

		for _, rule := range entry.RulesOfKind(model.KindFrequencyLimit) {
			p, ok := rule.Params.(model.FrequencyParams)
			if !ok {
				continue
			}

			// Scope sub-splits: same-specialty / same-tooth rules only
			// compare rows sharing that attribute.
			scoped := make(map[string][]dated)
			for _, i := range group {
				d := normalize.ParseDate(rows[i].Date)
				if d == nil {
					continue // malformed date: the row degrades out of grouping
				}
				key := ""
				if p.SameSpecialty {
					key += normalize.Name(rows[i].PhysicianSpecialty) + "|"
				}
				if p.SameTooth {
					if rows[i].ToothNo == nil {
						continue
					}
					key += *rows[i].ToothNo
				}
				scoped[key] = append(scoped[key], dated{idx: i, date: *d})
			}

			for _, seq := range scoped {
				sort.SliceStable(seq, func(a, b int) bool { return seq[a].date.Before(seq[b].date) })
				if p.IntervalDays > 0 {
					for k := 1; k < len(seq); k++ {
						gap := normalize.DayDiff(seq[k-1].date, seq[k].date)
						if gap < p.IntervalDays {
							flag(seq[k].idx, rule, fmt.Sprintf(
								"işlem en az %d gün arayla faturalanabilir; %s tarihli faturaya göre %d gün",
								p.IntervalDays, rows[seq[k-1].idx].Date, gap))
						}
					}
					continue
				}
				if p.MaxCount > 0 {
					buckets := make(map[string][]dated)
					for _, d := range seq {
						b := periodBucket(d.date, p.Per)
						buckets[b] = append(buckets[b], d)
					}
					for _, bucket := range buckets {
						for k := p.MaxCount; k < len(bucket); k++ {
							flag(bucket[k].idx, rule, fmt.Sprintf(
								"işlem %s en fazla %d kez faturalanabilir; ilk fatura %s",
								periodLabel(p.Per), p.MaxCount, rows[bucket[0].idx].Date))
						}
					}
				}
			}
		}
	}
}

// flagDuplicateOperations applies the bespoke rule: the same operation
// number billed more than once is always a violation, with or without an
// extracted frequency rule.
func flagDuplicateOperations(rows []model.BillingRow, results []model.ComplianceResult, group []int) {
	byOp := make(map[string][]int)
	for _, i := range group {
		if rows[i].OperationNo == nil || *rows[i].OperationNo == "" {
			continue
		}
		byOp[*rows[i].OperationNo] = append(byOp[*rows[i].OperationNo], i)
	}
	for op, idxs := range byOp {
		for _, i := range idxs[1:] {
			results[i].Violations = append(results[i].Violations, model.Violation{
				Code:        VioDuplicate,
				Explanation: fmt.Sprintf("%s numaralı ameliyat aynı işlem için birden fazla kez faturalanmış", op),
				Kind:        model.KindFrequencyLimit,
			})
			if results[i].Status == model.StatusCompliant {
				results[i].Status = model.StatusNonCompliant
			}
		}
	}
}

// periodBucket maps a date to its period bucket key. Weeks are ISO weeks;
// buckets are calendar-aligned, not rolling windows.
func periodBucket(t time.Time, per model.Period) string {
	switch per {
	case model.PeriodDay:
		return t.Format("2006-01-02")
	case model.PeriodWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case model.PeriodMonth:
		return t.Format("2006-01")
	case model.PeriodYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

func periodLabel(per model.Period) string {
	switch per {
	case model.PeriodDay:
		return "günde"
	case model.PeriodWeek:
		return "haftada"
	case model.PeriodMonth:
		return "ayda"
	case model.PeriodYear:
		return "yılda"
	default:
		return string(per)
	}
}
