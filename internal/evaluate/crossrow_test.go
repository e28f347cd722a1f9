package evaluate

import (
	"strings"
	"testing"

	"github.com/gyeh/sutcheck/internal/model"
)

func evalAll(rows []model.BillingRow, entries map[string]*model.RuleMasterEntry, ec *Context) []model.ComplianceResult {
	results := make([]model.ComplianceResult, len(rows))
	for i := range rows {
		results[i] = Row(i, &rows[i], entries[rows[i].Code], ec)
	}
	PostProcess(rows, results)
	return results
}

func TestSessionPass_WildcardConflict(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"610120": entryWith(rule(model.ExclusionParams{Wildcard: true}, 0.9)),
		"520010": entryWith(),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "610120"},
		{PatientID: "P1", Date: "15.01.2026", Code: "520010"},
	}
	results := evalAll(rows, entries, testContext(2))

	if results[0].Status != model.StatusNonCompliant {
		t.Errorf("row 0 status = %s, want NON_COMPLIANT", results[0].Status)
	}
	if len(results[0].Violations) != 1 || results[0].Violations[0].Code != VioExclusion {
		t.Fatalf("row 0 violations = %+v", results[0].Violations)
	}
	if !strings.Contains(results[0].Violations[0].Explanation, "520010") {
		t.Errorf("conflicting code not named: %q", results[0].Violations[0].Explanation)
	}
	// The other row carries no exclusion rule of its own.
	if results[1].Status != model.StatusCompliant {
		t.Errorf("row 1 status = %s, want COMPLIANT", results[1].Status)
	}
}

func TestSessionPass_TargetedListIgnoresOtherCodes(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"610120": entryWith(rule(model.ExclusionParams{Codes: []string{"618211"}}, 0.9)),
		"520010": entryWith(),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "610120"},
		{PatientID: "P1", Date: "15.01.2026", Code: "520010"},
	}
	results := evalAll(rows, entries, testContext(2))
	if len(results[0].Violations) != 0 {
		t.Errorf("unrelated session code flagged: %+v", results[0].Violations)
	}
}

func TestSessionPass_SameToothScope(t *testing.T) {
	t1, t2 := "11", "21"
	entries := map[string]*model.RuleMasterEntry{
		"401170": entryWith(rule(model.ExclusionParams{Codes: []string{"402000"}, SameToothOnly: true}, 0.9)),
		"402000": entryWith(),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "401170", ToothNo: &t1},
		{PatientID: "P1", Date: "15.01.2026", Code: "402000", ToothNo: &t2},
	}
	results := evalAll(rows, entries, testContext(2))
	if len(results[0].Violations) != 0 {
		t.Errorf("different teeth flagged: %+v", results[0].Violations)
	}

	rows[1].ToothNo = &t1
	results = evalAll(rows, entries, testContext(2))
	if len(results[0].Violations) != 1 {
		t.Errorf("same tooth not flagged: %+v", results[0].Violations)
	}
}

func TestSessionPass_DifferentDatesNoConflict(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"610120": entryWith(rule(model.ExclusionParams{Wildcard: true}, 0.9)),
		"520010": entryWith(),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "610120"},
		{PatientID: "P1", Date: "16.01.2026", Code: "520010"},
	}
	results := evalAll(rows, entries, testContext(2))
	if len(results[0].Violations) != 0 {
		t.Errorf("cross-session conflict flagged: %+v", results[0].Violations)
	}
}

func TestFrequencyPass_CountLimitFlagsRowsBeyondLimit(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"540110": entryWith(rule(model.FrequencyParams{MaxCount: 1, Per: model.PeriodYear}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "540110"},
		{PatientID: "P1", Date: "12.02.2026", Code: "540110"},
		{PatientID: "P1", Date: "20.03.2026", Code: "540110"},
	}
	results := evalAll(rows, entries, testContext(2))

	if len(results[0].Violations) != 0 {
		t.Errorf("first occurrence flagged: %+v", results[0].Violations)
	}
	for _, i := range []int{1, 2} {
		if len(results[i].Violations) != 1 || results[i].Violations[0].Code != VioFrequency {
			t.Errorf("row %d violations = %+v", i, results[i].Violations)
		}
		if results[i].Status != model.StatusNeedsReview {
			t.Errorf("row %d status = %s, want NEEDS_REVIEW", i, results[i].Status)
		}
	}
	// The reference date in the explanation is the bucket's first billing.
	if !strings.Contains(results[1].Violations[0].Explanation, "15.01.2026") {
		t.Errorf("explanation = %q", results[1].Violations[0].Explanation)
	}
}

func TestFrequencyPass_CountLimitResetsAcrossYears(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"540110": entryWith(rule(model.FrequencyParams{MaxCount: 1, Per: model.PeriodYear}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.12.2025", Code: "540110"},
		{PatientID: "P1", Date: "15.01.2026", Code: "540110"},
	}
	results := evalAll(rows, entries, testContext(2))
	for i := range results {
		if len(results[i].Violations) != 0 {
			t.Errorf("row %d flagged across year boundary: %+v", i, results[i].Violations)
		}
	}
}

func TestFrequencyPass_IntervalTooClose(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"610120": entryWith(rule(model.FrequencyParams{IntervalDays: 180}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "610120"},
		{PatientID: "P1", Date: "12.02.2026", Code: "610120"},
	}
	results := evalAll(rows, entries, testContext(2))
	if len(results[1].Violations) != 1 {
		t.Fatalf("row 1 violations = %+v", results[1].Violations)
	}
	if !strings.Contains(results[1].Violations[0].Explanation, "28 gün") {
		t.Errorf("explanation = %q", results[1].Violations[0].Explanation)
	}
}

func TestFrequencyPass_SameSpecialtyScope(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"610120": entryWith(rule(model.FrequencyParams{IntervalDays: 180, SameSpecialty: true}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "610120", PhysicianSpecialty: "Kardiyoloji"},
		{PatientID: "P1", Date: "12.02.2026", Code: "610120", PhysicianSpecialty: "Üroloji"},
	}
	results := evalAll(rows, entries, testContext(2))
	if len(results[1].Violations) != 0 {
		t.Errorf("different specialties flagged: %+v", results[1].Violations)
	}
}

func TestFrequencyPass_ExemptCode(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"520010": entryWith(rule(model.FrequencyParams{MaxCount: 1, Per: model.PeriodDay}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "520010"},
		{PatientID: "P1", Date: "15.01.2026", Code: "520010"},
	}
	results := evalAll(rows, entries, testContext(2))
	for i := range results {
		if len(results[i].Violations) != 0 {
			t.Errorf("exempt code flagged: row %d %+v", i, results[i].Violations)
		}
	}
}

func TestFrequencyPass_MalformedDateDegradesOut(t *testing.T) {
	entries := map[string]*model.RuleMasterEntry{
		"540110": entryWith(rule(model.FrequencyParams{MaxCount: 1, Per: model.PeriodYear}, 0.85)),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: "540110"},
		{PatientID: "P1", Date: "bozuk tarih", Code: "540110"},
	}
	results := evalAll(rows, entries, testContext(2))
	for i := range results {
		if len(results[i].Violations) != 0 {
			t.Errorf("row %d flagged despite malformed date: %+v", i, results[i].Violations)
		}
	}
}

func TestFlagDuplicateOperations(t *testing.T) {
	op := "OP-0001"
	entries := map[string]*model.RuleMasterEntry{
		SameOperationDuplicateCode: entryWith(),
	}
	rows := []model.BillingRow{
		{PatientID: "P1", Date: "15.01.2026", Code: SameOperationDuplicateCode, OperationNo: &op},
		{PatientID: "P1", Date: "16.01.2026", Code: SameOperationDuplicateCode, OperationNo: &op},
	}
	results := evalAll(rows, entries, testContext(2))

	if len(results[0].Violations) != 0 {
		t.Errorf("first billing flagged: %+v", results[0].Violations)
	}
	if len(results[1].Violations) != 1 || results[1].Violations[0].Code != VioDuplicate {
		t.Fatalf("row 1 violations = %+v", results[1].Violations)
	}
	if results[1].Status != model.StatusNonCompliant {
		t.Errorf("row 1 status = %s, want NON_COMPLIANT", results[1].Status)
	}
}
