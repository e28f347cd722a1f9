package model

// RuleKind identifies one of the structured rule categories extracted from
// regulatory description text.
type RuleKind string

const (
	KindTierRestriction      RuleKind = "tier_restriction"
	KindSpecialtyRestriction RuleKind = "specialty_restriction"
	KindMutualExclusion      RuleKind = "mutual_exclusion"
	KindFrequencyLimit       RuleKind = "frequency_limit"
	KindDiagnosisCondition   RuleKind = "diagnosis_condition"
	KindAgeRestriction       RuleKind = "age_restriction"
	KindDentalTreatment      RuleKind = "dental_treatment"
	KindGeneralNote          RuleKind = "general_note"
)

// AllRuleKinds lists the rule kinds in canonical order.
var AllRuleKinds = []RuleKind{
	KindTierRestriction,
	KindSpecialtyRestriction,
	KindMutualExclusion,
	KindFrequencyLimit,
	KindDiagnosisCondition,
	KindAgeRestriction,
	KindDentalTreatment,
	KindGeneralNote,
}

// ExtractionMethod records which subsystem produced a rule.
type ExtractionMethod string

const (
	MethodRegex  ExtractionMethod = "regex"
	MethodOracle ExtractionMethod = "oracle"
)

// TierMode distinguishes "only tier N" from "tier N and above".
type TierMode string

const (
	TierExact   TierMode = "exact"
	TierAtLeast TierMode = "at_least"
)

// Period is the bucket unit for count-style frequency limits.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// RuleParams is the kind-specific payload of a ParsedRule. Exactly one
// concrete param type exists per RuleKind; the evaluator dispatches on the
// concrete type so an unhandled kind is caught at the switch.
type RuleParams interface {
	RuleKind() RuleKind
}

// TierParams restricts billing to institutions of the listed care tiers.
type TierParams struct {
	Tiers []int    `json:"tiers"`
	Mode  TierMode `json:"mode"`
}

func (TierParams) RuleKind() RuleKind { return KindTierRestriction }

// SpecialtyParams restricts billing to physicians of the listed specialties.
type SpecialtyParams struct {
	Specialties []string `json:"specialties"`
}

func (SpecialtyParams) RuleKind() RuleKind { return KindSpecialtyRestriction }

// ExclusionParams forbids billing together with other procedures in the same
// session. Wildcard means "with any other procedure"; SameToothOnly narrows
// the conflict to rows sharing a tooth number.
type ExclusionParams struct {
	Codes         []string `json:"codes,omitempty"`
	Wildcard      bool     `json:"wildcard,omitempty"`
	SameToothOnly bool     `json:"same_tooth_only,omitempty"`
}

func (ExclusionParams) RuleKind() RuleKind { return KindMutualExclusion }

// FrequencyParams limits how often a procedure may be billed. Either a
// count-per-period limit (MaxCount/Per) or a minimum interval in calendar
// days (IntervalDays) is set, never both.
type FrequencyParams struct {
	MaxCount      int    `json:"max_count,omitempty"`
	Per           Period `json:"per,omitempty"`
	IntervalDays  int    `json:"interval_days,omitempty"`
	SameSpecialty bool   `json:"same_specialty,omitempty"`
	SameTooth     bool   `json:"same_tooth,omitempty"`
}

func (FrequencyParams) RuleKind() RuleKind { return KindFrequencyLimit }

// DiagnosisParams conditions billing on one of the listed ICD-10 codes.
type DiagnosisParams struct {
	Codes []string `json:"codes"`
}

func (DiagnosisParams) RuleKind() RuleKind { return KindDiagnosisCondition }

// AgeParams restricts billing to a patient age range. Nil bounds are open.
type AgeParams struct {
	MinAge *int `json:"min_age,omitempty"`
	MaxAge *int `json:"max_age,omitempty"`
}

func (AgeParams) RuleKind() RuleKind { return KindAgeRestriction }

// DentalParams marks a procedure as dental treatment (tooth number expected).
type DentalParams struct{}

func (DentalParams) RuleKind() RuleKind { return KindDentalTreatment }

// NoteParams carries a free-text regulatory note that fits no structured kind.
type NoteParams struct {
	Text string `json:"text"`
}

func (NoteParams) RuleKind() RuleKind { return KindGeneralNote }

// ParsedRule is one structured rule derived from one clause of a regulatory
// description.
type ParsedRule struct {
	Kind              RuleKind
	SourceText        string
	Params            RuleParams
	OriginSource      SourceKind
	FromSectionHeader bool
	Confidence        float64
	Method            ExtractionMethod
}
