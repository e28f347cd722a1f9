package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gyeh/sutcheck/internal/model"
)

// header lists the flat-row columns: the input row first, then the appended
// verdict/violation/justification columns.
var header = []string{
	"patient_id", "date", "time", "physician", "physician_specialty",
	"code", "code_name", "quantity", "billed_points", "billed_price", "billed_amount",
	"diagnosis_code", "tooth_no", "operation_no",
	"status", "confidence", "points_delta", "violations", "justification",
}

// WriteCSV emits the order-preserving flat spreadsheet-row format: each
// input row plus its verdict columns, 1:1 and index-aligned. Pass-through
// columns carried on BillingRow.Extra are appended after the fixed header,
// sorted by name.
func WriteCSV(w io.Writer, rows []model.BillingRow, results []model.ComplianceResult) error {
	if len(rows) != len(results) {
		return fmt.Errorf("row/result count mismatch: %d vs %d", len(rows), len(results))
	}
	extras := extraColumns(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), header...), extras...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		rec := flatRow(&rows[i], &results[i])
		for _, name := range extras {
			rec = append(rec, rows[i].Extra[name])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// extraColumns collects the sorted union of pass-through column names.
func extraColumns(rows []model.BillingRow) []string {
	seen := map[string]bool{}
	for i := range rows {
		for name := range rows[i].Extra {
			seen[name] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func flatRow(row *model.BillingRow, res *model.ComplianceResult) []string {
	var vioCodes, justifications []string
	for _, v := range res.Violations {
		vioCodes = append(vioCodes, v.Code)
		j := v.Explanation
		if v.SourceText != "" {
			j += " [" + v.SourceText + "]"
		}
		justifications = append(justifications, j)
	}

	return []string{
		row.PatientID,
		row.Date,
		row.Time,
		row.Physician,
		row.PhysicianSpecialty,
		row.Code,
		row.CodeName,
		formatFloat(row.Quantity),
		optFloat(row.BilledPoints),
		optFloat(row.BilledPrice),
		optFloat(row.BilledAmount),
		optStr(row.DiagnosisCode),
		optStr(row.ToothNo),
		optStr(row.OperationNo),
		string(res.Status),
		string(res.Confidence),
		optFloat(res.PointsDelta),
		strings.Join(vioCodes, "; "),
		strings.Join(justifications, " | "),
	}
}

func optStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
