package model

// SourceKind identifies one of the regulatory source documents.
type SourceKind string

const (
	SourceEK2B  SourceKind = "EK-2B" // general procedure price list
	SourceEK2C  SourceKind = "EK-2C" // diagnosis-based procedure-group price list
	SourceEK2CC SourceKind = "EK-2Ç" // dental procedure price list
	SourceGIL   SourceKind = "GIL"   // general procedures list
	SourceSUT   SourceKind = "SUT"   // prose legislation text
)

// SourceInfo describes a regulatory source and its merge precedence.
type SourceInfo struct {
	Kind       SourceKind
	Name       string // human-readable name shown in violations
	Precedence int    // lower wins for price/point fields
}

// AllSources lists the record-set sources in canonical order. SUT is not
// listed: it contributes article text, not per-code records.
var AllSources = []SourceInfo{
	{Kind: SourceEK2C, Name: "EK-2C Tanıya Dayalı İşlem Listesi", Precedence: 0},
	{Kind: SourceEK2B, Name: "EK-2B Hizmet Başı İşlem Listesi", Precedence: 1},
	{Kind: SourceGIL, Name: "Genel İşlem Listesi", Precedence: 2},
	{Kind: SourceEK2CC, Name: "EK-2Ç Diş Tedavileri Listesi", Precedence: 3},
}

// SourceByKind returns the SourceInfo for kind, or ok=false.
func SourceByKind(kind SourceKind) (SourceInfo, bool) {
	for _, s := range AllSources {
		if s.Kind == kind {
			return s, true
		}
	}
	return SourceInfo{}, false
}

// SourcePrecedence returns the merge precedence for kind; unknown kinds sort last.
func SourcePrecedence(kind SourceKind) int {
	if s, ok := SourceByKind(kind); ok {
		return s.Precedence
	}
	return len(AllSources)
}

// SourceRecord is one rectangular record produced by a source loader.
// Header-only records (empty Code, non-empty Name) appear in the GIL source
// and carry section context for the rows that follow them.
type SourceRecord struct {
	Code          string
	Name          string
	Description   string
	Points        *float64
	Price         *float64
	GroupLabel    string
	SectionHeader string
	Source        SourceKind
}

// IsHeaderOnly reports whether the record is a section header row.
func (r SourceRecord) IsHeaderOnly() bool {
	return r.Code == "" && r.Name != ""
}
