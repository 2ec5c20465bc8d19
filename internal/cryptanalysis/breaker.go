package cryptanalysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/logging"
	"github.com/RowanDark/cipherlab/internal/textscore"
)

const (
	// DefaultMinKeySize is the smallest repeating key length tried.
	DefaultMinKeySize = 2
	// DefaultMaxKeySize bounds the key lengths tried (exclusive).
	DefaultMaxKeySize = 40
)

// ErrKeyRecoveryFailed reports that no key could be assembled, either because
// a transposed column produced no candidate or because every key size tried
// failed.
var ErrKeyRecoveryFailed = errors.New("key recovery failed")

// BreakResult describes a recovered repeating key and the plaintext it
// produces.
type BreakResult struct {
	KeySize   int            `json:"key_size"`
	Key       []byte         `json:"key"`
	Plaintext []byte         `json:"plaintext"`
	Score     int            `json:"score"`
	Ranking   []KeySizeScore `json:"ranking"`
}

// Breaker recovers repeating XOR keys. The zero value tries key sizes
// [DefaultMinKeySize, DefaultMaxKeySize) and keeps the single best size.
type Breaker struct {
	// MinKeySize and MaxKeySize bound the key sizes tried; MaxKeySize is
	// exclusive.
	MinKeySize int
	MaxKeySize int
	// Candidates is how many of the best-ranked key sizes are decoded before
	// choosing the plaintext that scores highest. Values below one mean one.
	Candidates int
	// Workers caps concurrent scoring goroutines. Zero uses GOMAXPROCS.
	Workers int
	// Audit receives progress events when set.
	Audit *logging.AuditLogger
	// RunID correlates the audit events of one run.
	RunID string
}

func (b Breaker) keySizeRange() (int, int) {
	minSize, maxSize := b.MinKeySize, b.MaxKeySize
	if minSize <= 0 {
		minSize = DefaultMinKeySize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxKeySize
	}
	return minSize, maxSize
}

func workerLimit(workers int) int {
	if workers > 0 {
		return workers
	}
	return runtime.GOMAXPROCS(0)
}

// RankKeySizes scores the breaker's key size range against data.
func (b Breaker) RankKeySizes(ctx context.Context, data []byte) ([]KeySizeScore, error) {
	minSize, maxSize := b.keySizeRange()
	return rankKeySizes(ctx, data, minSize, maxSize, b.Workers)
}

// RecoverKey transposes data into keySize columns and solves each column as
// single-byte XOR. Byte j of the returned key is the solution for column j.
func (b Breaker) RecoverKey(ctx context.Context, data []byte, keySize int) ([]byte, error) {
	if keySize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, keySize)
	}
	columns := bitwise.Transpose(data, keySize)
	key := make([]byte, keySize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(b.Workers))
	for j, column := range columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			best, ok := SolveSingleByteXOR(column)
			if !ok {
				return fmt.Errorf("%w: column %d of key size %d is empty", ErrKeyRecoveryFailed, j, keySize)
			}
			key[j] = best.Key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return key, nil
}

// Break ranks key sizes, recovers a key for the best candidates and returns
// the one whose plaintext looks most like English. Key sizes whose columns
// cannot be solved are skipped in favour of the next-ranked size.
func (b Breaker) Break(ctx context.Context, data []byte) (BreakResult, error) {
	ranking, err := b.RankKeySizes(ctx, data)
	if err != nil {
		return BreakResult{}, err
	}
	b.emit(logging.AuditEvent{
		EventType: logging.EventKeySizeRanked,
		Decision:  logging.DecisionInfo,
		Metadata: map[string]any{
			"best_key_size": ranking[0].KeySize,
			"best_score":    ranking[0].Score,
			"evaluated":     len(ranking),
		},
	})

	wanted := max(b.Candidates, 1)
	var best BreakResult
	found := 0
	for _, candidate := range ranking {
		if found == wanted {
			break
		}
		key, err := b.RecoverKey(ctx, data, candidate.KeySize)
		if err != nil {
			if errors.Is(err, ErrKeyRecoveryFailed) {
				b.emit(logging.AuditEvent{
					EventType: logging.EventKeyRecoveryFailed,
					Decision:  logging.DecisionFailure,
					Reason:    err.Error(),
					Metadata:  map[string]any{"key_size": candidate.KeySize},
				})
				continue
			}
			return BreakResult{}, err
		}
		found++

		plaintext, err := bitwise.XORRepeating(data, key)
		if err != nil {
			return BreakResult{}, err
		}
		score, _ := textscore.ScoreBytes(plaintext)
		if found == 1 || score > best.Score {
			best = BreakResult{
				KeySize:   candidate.KeySize,
				Key:       key,
				Plaintext: plaintext,
				Score:     score,
			}
		}
	}
	if found == 0 {
		return BreakResult{}, fmt.Errorf("%w: no key size in ranking produced a key", ErrKeyRecoveryFailed)
	}
	best.Ranking = ranking

	b.emit(logging.AuditEvent{
		EventType: logging.EventKeyRecovered,
		Decision:  logging.DecisionSuccess,
		Metadata: map[string]any{
			"key_size":   best.KeySize,
			"key":        string(best.Key),
			"score":      best.Score,
			"candidates": found,
		},
	})
	return best, nil
}

func (b Breaker) emit(event logging.AuditEvent) {
	if b.Audit == nil {
		return
	}
	if event.RunID == "" {
		event.RunID = b.RunID
	}
	_ = b.Audit.Emit(event)
}

// RecoverKey solves the repeating key of length keySize for data.
func RecoverKey(data []byte, keySize int) ([]byte, error) {
	return Breaker{}.RecoverKey(context.Background(), data, keySize)
}

// BreakRepeatingXOR recovers the repeating key of data using the single best
// key size in [minSize, maxSize).
func BreakRepeatingXOR(ctx context.Context, data []byte, minSize, maxSize int) (BreakResult, error) {
	return Breaker{MinKeySize: minSize, MaxKeySize: maxSize, Candidates: 1}.Break(ctx, data)
}
