package scoring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	separators = regexp.MustCompile(`[_-]+`)
	// camelWord matches a lower-case letter followed by a capitalized word.
	// Acronym runs ("feeUSD") are left joined.
	camelWord = regexp.MustCompile(`([a-z])([A-Z][a-z])`)
)

// Prettify turns a column header into a display label.
// Underscores and hyphens become spaces, camel-case words are split, whitespace
// is collapsed, and each word is capitalized with the rest of it lower-cased:
// "annual_feeUSD" becomes "Annual Feeusd".
func Prettify(text string) string {
	s := separators.ReplaceAllString(text, " ")
	s = camelWord.ReplaceAllString(s, "$1 $2")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
