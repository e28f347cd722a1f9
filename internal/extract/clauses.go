package extract

import "strings"

// SplitClauses breaks a regulatory description into sentence-level clauses.
// A '.' ends a clause only when it is not part of an ordinal or article
// number ("3. basamak", "2.4.4.D-1"), i.e. not preceded by a digit and
// followed by whitespace. Semicolons and newlines always split.
func SplitClauses(text string) []string {
	var clauses []string
	var b strings.Builder
	runes := []rune(text)

	flush := func() {
		c := strings.TrimSpace(b.String())
		c = strings.TrimRight(c, ".;")
		if c != "" {
			clauses = append(clauses, c)
		}
		b.Reset()
	}

	for i, r := range runes {
		switch r {
		case ';', '\n', '•':
			flush()
		case '.':
			prevDigit := i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9'
			nextSpace := i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t'
			if !prevDigit && nextSpace {
				flush()
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return clauses
}
