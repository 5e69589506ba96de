// Package similarity scores how alike two name strings are.
package similarity

import (
	"unicode"
)

// Ratio returns 1 - distance/max(len(a), len(b)) over lowercased runes.
// The result is in [0, 1]; two empty strings are identical.
func Ratio(a, b string) float64 {
	ra, rb := lower(a), lower(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// Distance returns the Levenshtein edit distance between a and b with unit
// costs, ignoring case.
func Distance(a, b string) int {
	return levenshtein(lower(a), lower(b))
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func lower(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
