package model

// ComplianceStatus classifies one billing row's verdict.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "COMPLIANT"
	StatusNonCompliant ComplianceStatus = "NON_COMPLIANT"
	StatusNeedsReview  ComplianceStatus = "NEEDS_REVIEW"
	StatusUnmatched    ComplianceStatus = "UNMATCHED"
)

// ConfidenceLabel grades how reliable a verdict is.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "High"
	ConfidenceMedium ConfidenceLabel = "Medium"
	ConfidenceLow    ConfidenceLabel = "Low"
)

// Violation is one concrete regulatory breach attached to a result. The
// SourceText clause is shown to end users verbatim as justification.
type Violation struct {
	Code              string
	Explanation       string
	Source            SourceKind
	SourceText        string
	Kind              RuleKind
	FromSectionHeader bool
}

// ComplianceResult is the verdict for one billing row, index-aligned with the
// input row set.
type ComplianceResult struct {
	RowIndex   int
	Status     ComplianceStatus
	Confidence ConfidenceLabel
	Violations []Violation

	// Entry is the matched rule record; nil when Status is UNMATCHED.
	Entry *RuleMasterEntry

	// PointsDelta is billed points minus the regulatory reference value;
	// nil when either side is unknown.
	PointsDelta *float64
	PriceDelta  *float64
}

// InstitutionInfo describes the billing institution for tier checks.
type InstitutionInfo struct {
	Name string
	Tier int
}
