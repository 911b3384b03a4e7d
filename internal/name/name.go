// Package name parses person names into first/middle/last parts and scores
// name agreement between a query and a profile.
package name

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name is a parsed person name. All parts are lower-case and trimmed;
// Middle may hold several space-separated words.
type Name struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true, "prof": true,
	"rev": true, "sir": true, "hon": true, "capt": true, "sgt": true,
}

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
	"md": true, "phd": true, "esq": true, "dds": true, "cpa": true,
}

var lastPrefixes = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true, "del": true,
	"della": true, "di": true, "da": true, "du": true, "la": true, "le": true,
	"st": true, "mac": true, "bin": true, "ibn": true,
}

var lower = cases.Lower(language.Und)

// Normalize folds s to lower case, strips accents and the punctuation that
// people-search sites sprinkle into names, and collapses whitespace.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer(".", "", ",", " ", "\"", "", "(", " ", ")", " ").Replace(folded)
	return strings.Join(strings.Fields(lower.String(folded)), " ")
}

// Parse splits a display name. "Last, First Middle" ordering is recognised
// by a single comma. Titles and generational suffixes are dropped. A single
// word is treated as a first name.
func Parse(full string) Name {
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, ','); i >= 0 && strings.Count(full, ",") == 1 {
		before, after := strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
		if !suffixes[Normalize(after)] && before != "" && after != "" {
			full = after + " " + before
		}
	}

	var words []string
	for _, w := range strings.Fields(Normalize(full)) {
		if titles[w] && len(words) == 0 {
			continue
		}
		words = append(words, w)
	}
	for len(words) > 1 && suffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}

	switch len(words) {
	case 0:
		return Name{}
	case 1:
		return Name{First: words[0]}
	}

	lastStart := len(words) - 1
	for lastStart > 1 && lastPrefixes[words[lastStart-1]] {
		lastStart--
	}
	return Name{
		First:  words[0],
		Middle: strings.Join(words[1:lastStart], " "),
		Last:   strings.Join(words[lastStart:], " "),
	}
}
