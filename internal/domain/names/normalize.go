// Package names turns noisy OCR text lines into comparable player-name tokens.
//
// Normalize produces the cosmetic canonical form, Key the case-folded form
// used for every comparison, and Classify decides whether a raw line can be
// a player name at all.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds diacritics, drops characters other than letters, spaces,
// periods and hyphens, collapses whitespace and title-cases every token.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range foldDiacritics(raw) {
		switch {
		case unicode.IsLetter(r), r == '.', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		tokens[i] = titleToken(tok)
	}
	return strings.Join(tokens, " ")
}

// Key returns the case-folded normalized form. Two strings name the same
// text for matching purposes iff their keys are equal.
func Key(raw string) string {
	n := Normalize(raw)
	if n == "" {
		return ""
	}
	// Casers are stateful; one per call keeps Key safe for concurrent use.
	return cases.Fold().String(n)
}

// foldDiacritics strips combining marks (Pérez -> Perez).
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func titleToken(tok string) string {
	rs := []rune(tok)
	for i, r := range rs {
		if i == 0 {
			rs[i] = unicode.ToUpper(r)
			continue
		}
		rs[i] = unicode.ToLower(r)
	}
	return string(rs)
}
