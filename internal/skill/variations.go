package skill

import (
	"strings"
	"unicode"
)

// abbreviation pairs a long form with its short forms. Matching is bidirectional.
type abbreviation struct {
	long   string
	shorts []string
}

// abbreviations is a slice, not a map, so variation order is deterministic.
var abbreviations = []abbreviation{
	{long: "javascript", shorts: []string{"js"}},
	{long: "typescript", shorts: []string{"ts"}},
	{long: "python", shorts: []string{"py"}},
	{long: "machine learning", shorts: []string{"ml"}},
	{long: "artificial intelligence", shorts: []string{"ai"}},
	{long: "natural language processing", shorts: []string{"nlp"}},
	{long: "representational state transfer", shorts: []string{"rest"}},
	{long: "kubernetes", shorts: []string{"k8s"}},
	{long: "postgresql", shorts: []string{"postgres", "pg"}},
	{long: "golang", shorts: []string{"go"}},
	{long: "continuous integration", shorts: []string{"ci"}},
	{long: "user interface", shorts: []string{"ui"}},
	{long: "database", shorts: []string{"db"}},
	{long: "cplusplus", shorts: []string{"cpp"}},
	{long: "csharp", shorts: []string{"cs"}},
}

// Variations returns the token followed by its fuzzy variants, without duplicates.
//
// For every abbreviation entry, a token containing the long form yields the short forms and a
// token containing a short form yields the long form. A token with digits yields a digit-free
// copy; a token without digits yields copies suffixed with 1, 2 and 3.
func Variations(token string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(token)

	for _, abbr := range abbreviations {
		if strings.Contains(token, abbr.long) {
			for _, short := range abbr.shorts {
				add(short)
			}
		}
		for _, short := range abbr.shorts {
			if strings.Contains(token, short) {
				add(abbr.long)
				break
			}
		}
	}

	if strings.IndexFunc(token, unicode.IsDigit) >= 0 {
		add(strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, token))
	} else {
		for _, suffix := range []string{"1", "2", "3"} {
			add(token + suffix)
		}
	}

	return out
}
