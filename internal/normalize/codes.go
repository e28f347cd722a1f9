package normalize

import (
	"regexp"
	"strings"
)

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9]`)

// Code normalizes a procedure code: trims, uppercases, and strips punctuation
// and whitespace. A letter prefix (e.g. "P520030") is preserved. The result
// is a fixed point: Code(Code(s)) == Code(s).
func Code(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	return nonCodeChars.ReplaceAllString(s, "")
}
