package sources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gyeh/sutcheck/internal/normalize"
)

// articleHeading matches a SUT article heading at the start of a line:
// "2.4.4.D-1 - Diş tedavileri" or "2.4.4.D-1." followed by a title.
var articleHeading = regexp.MustCompile(`^(\d+(?:\.\d+)*(?:\.[A-ZÇŞĞÖÜİ])?(?:-\d+)?)[.\s-]+(.*)$`)

// Articles indexes the prose legislation text by article number.
type Articles struct {
	byNumber map[string]string
}

// LoadArticles reads a SUT legislation text file and indexes its articles.
func LoadArticles(path string) (*Articles, Provenance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Provenance{}, fmt.Errorf("open legislation text: %w", err)
	}
	defer f.Close()

	a := ParseArticles(f)
	prov := Provenance{Source: "SUT", FileName: path, RowCount: len(a.byNumber)}
	return a, prov, nil
}

// ParseArticles scans legislation text line by line. Each heading line opens
// an article; body lines accumulate onto the most recent article.
func ParseArticles(r io.Reader) *Articles {
	a := &Articles{byNumber: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current string
	var body strings.Builder
	flush := func() {
		if current != "" {
			a.byNumber[current] = strings.TrimSpace(body.String())
		}
		body.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := articleHeading.FindStringSubmatch(line); m != nil {
			flush()
			current = NormalizeArticleNo(m[1])
			body.WriteString(strings.TrimSpace(m[2]))
			body.WriteString(" ")
			continue
		}
		if current != "" && line != "" {
			body.WriteString(line)
			body.WriteString(" ")
		}
	}
	flush()
	return a
}

// NormalizeArticleNo canonicalizes an article reference for lookup. Headings
// carry Turkish letters ("2.4.4.Ç") while references are matched over folded
// ASCII text, so both sides fold before uppercasing.
func NormalizeArticleNo(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	return strings.ToUpper(normalize.Fold(s))
}

// Lookup resolves an article number to its text. When the exact sub-article
// is absent it falls back to the parent article: "2.4.4.D-1" also resolves
// against "2.4.4.D".
func (a *Articles) Lookup(number string) (string, bool) {
	key := NormalizeArticleNo(number)
	for key != "" {
		if text, ok := a.byNumber[key]; ok {
			return text, true
		}
		key = parentArticle(key)
	}
	return "", false
}

// Len returns the number of indexed articles.
func (a *Articles) Len() int { return len(a.byNumber) }

// parentArticle strips the last segment of an article number: first any
// "-N" suffix, then the trailing ".X" component. Empty when at the root.
func parentArticle(key string) string {
	if i := strings.LastIndex(key, "-"); i > 0 {
		return key[:i]
	}
	if i := strings.LastIndex(key, "."); i > 0 {
		return key[:i]
	}
	return ""
}
