package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle folds a title into the form used for similarity scoring:
// compatibility-decomposed, combining marks removed, case folded, every run of
// punctuation or whitespace collapsed to a single space, and trimmed.
//
// "Amélie: The Fabulous" and "amelie - the fabulous" normalize identically.
func NormalizeTitle(title string) string {
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, title)
	if err != nil {
		stripped = title
	}
	folded := cases.Fold().String(stripped)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		if r == '\'' || r == '’' {
			// Apostrophes join their word: "Schindler's" -> "schindlers".
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// RatingKey renders a scraped title the way release folders spell it: a colon
// cannot appear in a folder name, so it becomes " -".
func RatingKey(title string) string {
	title = strings.TrimSpace(title)
	if !strings.Contains(title, ":") {
		return title
	}
	return strings.ReplaceAll(title, ":", " -")
}
