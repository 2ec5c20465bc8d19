package cryptanalysis

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/cipherlab/internal/bitwise"
)

var (
	// ErrInvalidKeySize reports a key size below one.
	ErrInvalidKeySize = errors.New("key size must be at least 1")
	// ErrInsufficientData reports ciphertext too short to hold two blocks of
	// the requested key size.
	ErrInsufficientData = errors.New("not enough data for key size")
)

// KeySizeScore is the normalised Hamming distance for one candidate key
// size. Lower scores are more likely to be the real key length.
type KeySizeScore struct {
	KeySize int     `json:"key_size"`
	Score   float64 `json:"score"`
}

func byKeySizeScore(a, b KeySizeScore) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.KeySize, b.KeySize)
}

// ScoreKeySize splits data into keySize blocks and averages the Hamming
// distance between each block and the one after it, normalised by the
// number of blocks and by keySize.
func ScoreKeySize(keySize int, data []byte) (float64, error) {
	if keySize < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidKeySize, keySize)
	}
	if len(data) < 2*keySize {
		return 0, fmt.Errorf("%w: %d bytes, key size %d", ErrInsufficientData, len(data), keySize)
	}

	chunkCount := len(data) / keySize
	total := 0
	for i := 0; i < chunkCount-1; i++ {
		a := data[i*keySize : (i+1)*keySize]
		b := data[(i+1)*keySize : (i+2)*keySize]
		distance, err := bitwise.HammingDistance(a, b)
		if err != nil {
			return 0, err
		}
		total += distance
	}
	return float64(total) / float64(chunkCount) / float64(keySize), nil
}

// RankKeySizes scores every key size in [minSize, maxSize) that data is long
// enough for and returns them best first.
func RankKeySizes(ctx context.Context, data []byte, minSize, maxSize int) ([]KeySizeScore, error) {
	return rankKeySizes(ctx, data, minSize, maxSize, 0)
}

func rankKeySizes(ctx context.Context, data []byte, minSize, maxSize, workers int) ([]KeySizeScore, error) {
	minSize = max(minSize, 1)
	sizes := make([]int, 0, max(maxSize-minSize, 0))
	for size := minSize; size < maxSize; size++ {
		if len(data) >= 2*size {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: %d bytes, key sizes [%d, %d)", ErrInsufficientData, len(data), minSize, maxSize)
	}

	scores := make([]KeySizeScore, len(sizes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, size := range sizes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := ScoreKeySize(size, data)
			if err != nil {
				return err
			}
			scores[i] = KeySizeScore{KeySize: size, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return topK(scores, len(scores), byKeySizeScore), nil
}
