package model

// RuleMasterEntry is the merged authoritative record for one normalized
// procedure code, built once per extraction run from all regulatory sources
// and treated as read-only afterwards.
type RuleMasterEntry struct {
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Sources []SourceKind `json:"sources"`
	Points  *float64     `json:"points,omitempty"`
	Price   *float64     `json:"price,omitempty"`
	// GILPoints holds the general-procedures-list point value when it
	// differs from the price-list value; both are kept side by side.
	GILPoints *float64 `json:"gil_points,omitempty"`

	// Descriptions keeps the raw description per contributing source.
	Descriptions map[SourceKind]string `json:"descriptions,omitempty"`

	GroupLabels   []string `json:"group_labels,omitempty"`
	SectionHeader string   `json:"section_header,omitempty"`

	Rules []ParsedRule `json:"rules,omitempty"`
}

// RulesOfKind returns the entry's rules of the given kind, in order.
func (e *RuleMasterEntry) RulesOfKind(kind RuleKind) []ParsedRule {
	var out []ParsedRule
	for _, r := range e.Rules {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// HasRuleOfKind reports whether any rule of kind is present.
func (e *RuleMasterEntry) HasRuleOfKind(kind RuleKind) bool {
	for _, r := range e.Rules {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// HasSource reports whether src contributed to this entry.
func (e *RuleMasterEntry) HasSource(src SourceKind) bool {
	for _, s := range e.Sources {
		if s == src {
			return true
		}
	}
	return false
}
