package model

// BillingRow mirrors the Parquet schema for one billed line exported from the
// hospital information system. Dates arrive as strings in assorted formats
// and are parsed during analysis; a malformed date must not fail the row.
type BillingRow struct {
	PatientID          string `parquet:"patient_id"`
	Date               string `parquet:"date"`
	Time               string `parquet:"time,optional"`
	Physician          string `parquet:"physician,optional"`
	PhysicianSpecialty string `parquet:"physician_specialty,optional"`

	Code     string  `parquet:"code"`
	CodeName string  `parquet:"code_name,optional"`
	Quantity float64 `parquet:"quantity,optional"`

	BilledPoints *float64 `parquet:"billed_points,optional"`
	BilledPrice  *float64 `parquet:"billed_price,optional"`
	BilledAmount *float64 `parquet:"billed_amount,optional"`

	DiagnosisCode *string `parquet:"diagnosis_code,optional"`
	ToothNo       *string `parquet:"tooth_no,optional"`
	OperationNo   *string `parquet:"operation_no,optional"`
	PatientAge    *int32  `parquet:"patient_age,optional"`

	// Extra carries pass-through columns not in the fixed schema. They are
	// echoed on export and never interpreted.
	Extra map[string]string `parquet:"-"`
}

// SessionKey groups rows billed for one patient on one date.
func (r *BillingRow) SessionKey() string {
	return r.PatientID + "|" + r.Date
}
