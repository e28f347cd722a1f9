package specialty

import (
	"strings"

	"github.com/gyeh/sutcheck/internal/normalize"
)

// Matcher decides whether a physician's specialty satisfies a rule's
// allowed-specialty name. Purely deterministic string rules: every match
// must be explainable to the person reading the violation.
type Matcher struct {
	table *Table
}

// NewMatcher returns a Matcher over the given alias table.
func NewMatcher(table *Table) *Matcher {
	return &Matcher{table: table}
}

// Matches checks the physician specialty against the rule specialty, in
// order, first hit wins: exact equality, shared alias group, boundary-aware
// substring containment, token-overlap fallback.
//
// The substring and token heuristics are not symmetric across the alias
// graph; their behavior is pinned by golden tests rather than smoothed out.
func (m *Matcher) Matches(physicianSpecialty, ruleSpecialty string) bool {
	phys := normalize.Name(physicianSpecialty)
	rule := normalize.Name(ruleSpecialty)
	if phys == "" || rule == "" {
		return false
	}

	if phys == rule {
		return true
	}

	if pg, rg := m.table.group(phys), m.table.group(rule); pg >= 0 && pg == rg {
		return true
	}

	if containsBounded(phys, rule) || containsBounded(rule, phys) {
		return true
	}

	return tokenOverlap(rule, phys)
}

// containsBounded reports whether inner appears in outer as a whole-word-ish
// span. The span must cover at least 40% of outer's length so a short name
// cannot spuriously match inside a long unrelated phrase, and must be
// bounded by whitespace or punctuation on both sides.
func containsBounded(outer, inner string) bool {
	if len(inner) >= len(outer) {
		return false
	}
	if len(inner)*10 < len(outer)*4 {
		return false
	}
	idx := strings.Index(outer, inner)
	if idx < 0 {
		return false
	}
	if idx > 0 && !isBoundary(outer[idx-1]) {
		return false
	}
	if end := idx + len(inner); end < len(outer) && !isBoundary(outer[end]) {
		return false
	}
	return true
}

func isBoundary(b byte) bool {
	switch b {
	case ' ', ',', '.', '(', ')', '-', '/':
		return true
	}
	return false
}

// tokenOverlap accepts when at least 60% of the rule specialty's tokens
// (stop words removed) are found, via mutual substring, among the physician
// specialty's tokens.
func tokenOverlap(rule, phys string) bool {
	ruleToks := tokens(rule)
	physToks := tokens(phys)
	if len(ruleToks) == 0 || len(physToks) == 0 {
		return false
	}

	found := 0
	for _, rt := range ruleToks {
		for _, pt := range physToks {
			if strings.Contains(pt, rt) || strings.Contains(rt, pt) {
				found++
				break
			}
		}
	}
	return found*10 >= len(ruleToks)*6
}

func tokens(s string) []string {
	var out []string
	for _, t := range strings.Fields(s) {
		if !stopWords[t] && len(t) > 1 {
			out = append(out, t)
		}
	}
	return out
}
