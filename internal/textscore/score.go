// Package textscore grades candidate plaintexts by how closely their
// characters follow English letter frequencies.
package textscore

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// English letter weights per ten thousand characters, after the
// letter-distribution table at http://www.macfreek.nl/memory/Letter_Distribution.
// The space weight dominates so that word-separated text wins clearly.
var frequencies = map[rune]int{
	'a': 653,
	'b': 126,
	'c': 223,
	'd': 328,
	'e': 1026,
	'f': 198,
	'g': 162,
	'h': 498,
	'i': 567,
	'j': 10,
	'k': 56,
	'l': 331,
	'm': 203,
	'n': 571,
	'o': 616,
	'p': 150,
	'q': 8,
	'r': 499,
	's': 532,
	't': 752,
	'u': 228,
	'v': 80,
	'w': 170,
	'x': 14,
	'y': 143,
	'z': 5,
	' ': 1829,
}

// Weight returns the frequency weight of a single lower-case rune, or zero
// for characters outside the table.
func Weight(r rune) int {
	return frequencies[r]
}

// Score lower-cases text and sums the weight of every rune. Larger values
// mean the text looks more like English. Combining marks are separate runes
// of weight zero, so "e\u0301" scores as 'e'.
func Score(text string) int {
	lower := cases.Lower(language.Und).String(text)
	total := 0
	for _, r := range lower {
		total += frequencies[r]
	}
	return total
}

// ScoreBytes scores b as UTF-8 text. It reports false, with a zero score,
// when b is not valid UTF-8.
func ScoreBytes(b []byte) (int, bool) {
	if !utf8.Valid(b) {
		return 0, false
	}
	return Score(string(b)), true
}
