package normalize

// Name normalizes a free-text name (specialty, physician) for comparison:
// Turkish-aware lowercasing, diacritic folding, whitespace collapsing.
func Name(s string) string {
	return Fold(s)
}
