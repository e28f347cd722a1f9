package billingread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// requiredColumns are the billing columns analysis cannot run without.
// Everything else in the export is optional or pass-through.
var requiredColumns = []string{"patient_id", "date", "code"}

// fixedColumns are the schema columns decoded into BillingRow fields.
// Any other column in the file is pass-through: captured into Extra,
// echoed on export, never interpreted.
var fixedColumns = map[string]bool{
	"patient_id":          true,
	"date":                true,
	"time":                true,
	"physician":           true,
	"physician_specialty": true,
	"code":                true,
	"code_name":           true,
	"quantity":            true,
	"billed_points":       true,
	"billed_price":        true,
	"billed_amount":       true,
	"diagnosis_code":      true,
	"tooth_no":            true,
	"operation_no":        true,
	"patient_age":         true,
}

// ValidateSchema checks that the Parquet schema carries the required
// billing columns.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("billing file missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
