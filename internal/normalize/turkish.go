package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Turkish lowercasing is locale-sensitive: dotted İ lowers to i and dotless I
// lowers to ı. Naive strings.ToLower corrupts both, so all free-text matching
// goes through the x/text Turkish caser.
var turkishLower = cases.Lower(language.Turkish)

// asciiFold maps Turkish letters (post-lowercasing) to their ASCII bases so
// pattern batteries can be written diacritic-free.
var asciiFold = strings.NewReplacer(
	"ç", "c",
	"ğ", "g",
	"ı", "i",
	"ö", "o",
	"ş", "s",
	"ü", "u",
	"â", "a",
	"î", "i",
	"û", "u",
)

// Fold returns a case- and diacritic-normalized copy of Turkish text:
// Turkish-aware lowercasing, ASCII folding, and whitespace collapsing.
func Fold(s string) string {
	s = turkishLower.String(s)
	s = asciiFold.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
