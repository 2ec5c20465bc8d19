// Package cryptanalysis recovers keys from XOR ciphertext: single-byte keys
// by exhaustive English scoring, and repeating keys by Hamming-distance key
// size estimation followed by per-column single-byte solving.
package cryptanalysis

import (
	"cmp"
	"slices"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/textscore"
)

// ScoredKey is a single-byte key together with the English score of the
// text it decodes to.
type ScoredKey struct {
	Key   byte `json:"key"`
	Score int  `json:"score"`
}

// byScoreDesc orders higher scores first and breaks ties on the lower key.
func byScoreDesc(a, b ScoredKey) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Key, b.Key)
}

// topK returns the first n items of candidates under order. The input is not
// modified.
func topK[T any](candidates []T, n int, order func(a, b T) int) []T {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, order)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// scoreKey decodes data under key and scores the result. Output that is not
// valid UTF-8 scores zero.
func scoreKey(data []byte, key byte) ScoredKey {
	score, _ := textscore.ScoreBytes(bitwise.XORScalar(data, key))
	return ScoredKey{Key: key, Score: score}
}

// RankSingleByteXOR scores all 256 single-byte keys against data and returns
// the best n.
func RankSingleByteXOR(data []byte, n int) []ScoredKey {
	if len(data) == 0 {
		return nil
	}
	scored := make([]ScoredKey, 256)
	for k := range scored {
		scored[k] = scoreKey(data, byte(k))
	}
	return topK(scored, n, byScoreDesc)
}

// SolveSingleByteXOR returns the key whose decoding of data scores highest.
// It reports false only when data is empty.
func SolveSingleByteXOR(data []byte) (ScoredKey, bool) {
	best := RankSingleByteXOR(data, 1)
	if len(best) == 0 {
		return ScoredKey{}, false
	}
	return best[0], true
}
