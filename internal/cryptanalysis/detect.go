package cryptanalysis

import (
	"cmp"
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/cipherlab/internal/bitwise"
)

// ErrNoCandidates reports detection over an empty set of lines.
var ErrNoCandidates = errors.New("no candidate lines")

// LineMatch is the line most likely to be single-byte XOR ciphertext.
type LineMatch struct {
	Index     int       `json:"index"`
	Line      []byte    `json:"line"`
	Key       ScoredKey `json:"key"`
	Plaintext []byte    `json:"plaintext"`
}

// DetectSingleByteXOR solves every line as single-byte XOR and returns the
// line whose best key scores highest. Earlier lines win ties.
func DetectSingleByteXOR(ctx context.Context, lines [][]byte) (LineMatch, error) {
	if len(lines) == 0 {
		return LineMatch{}, ErrNoCandidates
	}

	type lineScore struct {
		index int
		key   ScoredKey
		ok    bool
	}
	results := make([]lineScore, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(0))
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, ok := SolveSingleByteXOR(line)
			results[i] = lineScore{index: i, key: key, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LineMatch{}, err
	}

	ranked := topK(results, 1, func(a, b lineScore) int {
		if a.ok != b.ok {
			if a.ok {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.key.Score, a.key.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	best := ranked[0]
	if !best.ok {
		return LineMatch{}, ErrNoCandidates
	}
	return LineMatch{
		Index:     best.index,
		Line:      lines[best.index],
		Key:       best.key,
		Plaintext: bitwise.XORScalar(lines[best.index], best.key.Key),
	}, nil
}
