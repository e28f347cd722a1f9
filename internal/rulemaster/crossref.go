package rulemaster

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
	"github.com/gyeh/sutcheck/internal/sources"
)

// CrossRef is one clause pointing from an entry at another procedure code or
// at an article of the prose legislation.
type CrossRef struct {
	FromCode string `json:"from_code"`
	Target   string `json:"target"`
	Article  bool   `json:"article"`
	Resolved bool   `json:"resolved"`
}

var (
	// "SUT'un 2.4.4.D-1 maddesi", "2.4.1 nolu maddeye bakiniz"
	articleRef = regexp.MustCompile(`\b(\d+(?:\.\d+)+(?:\.[a-z])?(?:-\d+)?)\s*(?:nolu |numarali |sayili )?madde`)
	// "520030 kodlu islem", "520.030 sayili islem"
	codeRef = regexp.MustCompile(`\b(\d{3}[.]?\d{3})\s*(?:kodlu|sayili|no'?lu)\s*islem`)
)

// resolveCrossRefs scans every entry's descriptions for references and, when
// the target resolves, attaches its text as an additional general-note rule
// on the referring entry. Article lookups fall back to the parent article
// when the exact sub-article is absent.
func resolveCrossRefs(res *Result, articles *sources.Articles, log zerolog.Logger) {
	codes := make([]string, 0, len(res.Entries))
	for code := range res.Entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		e := res.Entries[code]
		// Descriptions are visited in source precedence order so repeated
		// builds of the same input append note rules identically.
		for _, si := range model.AllSources {
			src := si.Kind
			desc, ok := e.Descriptions[src]
			if !ok {
				continue
			}
			folded := normalize.Fold(desc)

			for _, m := range articleRef.FindAllStringSubmatch(folded, -1) {
				ref := CrossRef{FromCode: code, Target: sources.NormalizeArticleNo(m[1]), Article: true}
				if articles != nil {
					if text, ok := articles.Lookup(ref.Target); ok {
						ref.Resolved = true
						e.Rules = append(e.Rules, model.ParsedRule{
							Kind:         model.KindGeneralNote,
							SourceText:   "SUT " + ref.Target + ": " + text,
							Params:       model.NoteParams{Text: text},
							OriginSource: model.SourceSUT,
							Confidence:   0.5,
							Method:       model.MethodRegex,
						})
					}
				}
				record(res, ref)
			}

			for _, m := range codeRef.FindAllStringSubmatch(folded, -1) {
				target := normalize.Code(m[1])
				if target == code {
					continue
				}
				ref := CrossRef{FromCode: code, Target: target}
				if other, ok := res.Entries[target]; ok {
					ref.Resolved = true
					if text := firstDescription(other); text != "" {
						e.Rules = append(e.Rules, model.ParsedRule{
							Kind:         model.KindGeneralNote,
							SourceText:   target + ": " + text,
							Params:       model.NoteParams{Text: text},
							OriginSource: src,
							Confidence:   0.5,
							Method:       model.MethodRegex,
						})
					}
				}
				record(res, ref)
			}
		}
	}

	if len(res.Unresolved) > 0 {
		log.Warn().Int("count", len(res.Unresolved)).Msg("unresolved cross-references")
	}
}

func record(res *Result, ref CrossRef) {
	if ref.Resolved {
		res.Resolved = append(res.Resolved, ref)
	} else {
		res.Unresolved = append(res.Unresolved, ref)
	}
}

// firstDescription returns the highest-precedence description of an entry.
func firstDescription(e *model.RuleMasterEntry) string {
	best := ""
	bestPrec := -1
	for src, desc := range e.Descriptions {
		p := model.SourcePrecedence(src)
		if desc != "" && (bestPrec < 0 || p < bestPrec) {
			best = desc
			bestPrec = p
		}
	}
	return strings.TrimSpace(best)
}
