package vocab

import (
	"strings"

	"github.com/samber/lo"
)

// numberNames maps corpus-name number suffixes to roman numerals.
var numberNames = map[string]string{
	"one":   "I",
	"two":   "II",
	"three": "III",
	"four":  "IV",
	"five":  "V",
}

// DisplayName renders a corpus identifier for the UI, e.g.
// "nouns_one" becomes "Nouns I" and "common_words" "Common Words".
func DisplayName(corpus string) string {
	parts := lo.Map(strings.Split(corpus, "_"), func(p string, _ int) string {
		if roman, ok := numberNames[p]; ok {
			return roman
		}
		if p == "" {
			return p
		}
		return strings.ToUpper(p[:1]) + p[1:]
	})
	return strings.Join(parts, " ")
}
