package cryptanalysis

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/logging"
)

const corpusKey = "Terminator X: Bring the noise"

func loadCorpus(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/corpus.txt")
	if err != nil {
		t.Fatalf("read corpus: %v", err)
	}
	return data
}

func encryptCorpus(t *testing.T, key string) ([]byte, []byte) {
	t.Helper()
	plain := loadCorpus(t)
	cipher, err := bitwise.XORRepeating(plain, []byte(key))
	if err != nil {
		t.Fatalf("encrypt corpus: %v", err)
	}
	return plain, cipher
}

func TestSolveSingleByteXORFixture(t *testing.T) {
	data, _ := hex.DecodeString("1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736")

	best, ok := SolveSingleByteXOR(data)
	if !ok {
		t.Fatal("expected a key")
	}
	if best.Key != 'X' {
		t.Fatalf("expected key 'X', got %q", best.Key)
	}
	if got := string(bitwise.XORScalar(data, best.Key)); got != "Cooking MC's like a pound of bacon" {
		t.Fatalf("unexpected plaintext %q", got)
	}
}

func TestSolveSingleByteXORRoundTrip(t *testing.T) {
	plain := []byte("Now that the party is jumping, with the bass kicked in")
	for k := 0; k < 256; k++ {
		cipher := bitwise.XORScalar(plain, byte(k))
		best, ok := SolveSingleByteXOR(cipher)
		if !ok {
			t.Fatalf("key %d: expected a result", k)
		}
		if best.Key != byte(k) {
			t.Fatalf("key %d: recovered %d", k, best.Key)
		}
	}
}

func TestSolveSingleByteXOREmpty(t *testing.T) {
	if _, ok := SolveSingleByteXOR(nil); ok {
		t.Fatal("expected no result for empty input")
	}
}

func TestRankSingleByteXORTieBreaksOnLowestKey(t *testing.T) {
	// Against a zero byte each key decodes to itself: space wins, then 'E'
	// and 'e' tie on weight and the lower key comes first.
	ranked := RankSingleByteXOR([]byte{0x00}, 3)
	want := []ScoredKey{{Key: ' ', Score: 1829}, {Key: 'E', Score: 1026}, {Key: 'e', Score: 1026}}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(ranked))
	}
	for i := range want {
		if ranked[i] != want[i] {
			t.Fatalf("rank %d: expected %+v, got %+v", i, want[i], ranked[i])
		}
	}
}

func TestScoreKeySize(t *testing.T) {
	// Three blocks give two adjacent pairs, normalised by three chunks of two.
	data := []byte("abcdef")
	var want int
	for _, pair := range [][2]string{{"ab", "cd"}, {"cd", "ef"}} {
		d, err := bitwise.HammingDistance([]byte(pair[0]), []byte(pair[1]))
		if err != nil {
			t.Fatalf("HammingDistance: %v", err)
		}
		want += d
	}
	got, err := ScoreKeySize(2, data)
	if err != nil {
		t.Fatalf("ScoreKeySize: %v", err)
	}
	if expected := float64(want) / 3 / 2; got != expected {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestScoreKeySizeIgnoresTrailingPartialBlock(t *testing.T) {
	full, err := ScoreKeySize(3, []byte("abcdefghi"))
	if err != nil {
		t.Fatalf("ScoreKeySize: %v", err)
	}
	partial, err := ScoreKeySize(3, []byte("abcdefghiXY"))
	if err != nil {
		t.Fatalf("ScoreKeySize: %v", err)
	}
	if full != partial {
		t.Fatalf("expected trailing bytes to be ignored, got %v vs %v", full, partial)
	}
}

func TestScoreKeySizePreconditions(t *testing.T) {
	if _, err := ScoreKeySize(0, []byte("abcd")); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("expected ErrInvalidKeySize, got %v", err)
	}
	if _, err := ScoreKeySize(3, []byte("abcde")); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestScoreKeySizeNonNegative(t *testing.T) {
	_, cipher := encryptCorpus(t, corpusKey)
	for size := 1; size <= 60; size++ {
		score, err := ScoreKeySize(size, cipher)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if score < 0 {
			t.Fatalf("size %d: negative score %v", size, score)
		}
	}
}

func TestRankKeySizesFindsTrueLength(t *testing.T) {
	_, cipher := encryptCorpus(t, corpusKey)

	ranking, err := RankKeySizes(context.Background(), cipher, DefaultMinKeySize, DefaultMaxKeySize)
	if err != nil {
		t.Fatalf("RankKeySizes: %v", err)
	}
	if len(ranking) != DefaultMaxKeySize-DefaultMinKeySize {
		t.Fatalf("expected %d ranked sizes, got %d", DefaultMaxKeySize-DefaultMinKeySize, len(ranking))
	}
	for i := 1; i < len(ranking); i++ {
		if byKeySizeScore(ranking[i-1], ranking[i]) > 0 {
			t.Fatalf("ranking not sorted at %d: %+v then %+v", i, ranking[i-1], ranking[i])
		}
	}

	position := -1
	for i, r := range ranking {
		if r.KeySize == len(corpusKey) {
			position = i
			break
		}
	}
	if position < 0 || position >= 3 {
		t.Fatalf("expected key size %d among the best three, got position %d in %+v", len(corpusKey), position, ranking[:5])
	}
}

func TestRankKeySizesSkipsOversizedCandidates(t *testing.T) {
	ranking, err := RankKeySizes(context.Background(), []byte("0123456789"), 2, 40)
	if err != nil {
		t.Fatalf("RankKeySizes: %v", err)
	}
	for _, r := range ranking {
		if r.KeySize > 5 {
			t.Fatalf("key size %d should have been skipped", r.KeySize)
		}
	}
	if _, err := RankKeySizes(context.Background(), []byte("ab"), 2, 40); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRecoverKey(t *testing.T) {
	_, cipher := encryptCorpus(t, corpusKey)

	key, err := RecoverKey(cipher, len(corpusKey))
	if err != nil {
		t.Fatalf("RecoverKey: %v", err)
	}
	if string(key) != corpusKey {
		t.Fatalf("expected key %q, got %q", corpusKey, key)
	}

	if _, err := RecoverKey([]byte("abc"), 8); !errors.Is(err, ErrKeyRecoveryFailed) {
		t.Fatalf("expected ErrKeyRecoveryFailed for empty columns, got %v", err)
	}
}

func TestBreakerBreak(t *testing.T) {
	plain, cipher := encryptCorpus(t, corpusKey)

	breaker := Breaker{Candidates: 3, Workers: 4}
	result, err := breaker.Break(context.Background(), cipher)
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if string(result.Key) != corpusKey {
		t.Fatalf("expected key %q, got %q", corpusKey, result.Key)
	}
	if !bytes.Equal(result.Plaintext, plain) {
		t.Fatalf("plaintext mismatch")
	}
	if len(result.Ranking) == 0 {
		t.Fatal("expected ranking to be returned")
	}
}

func TestBreakRepeatingXORShortKey(t *testing.T) {
	key := string([]byte{0x13, 0xd4, 0x6b})
	plain, cipher := encryptCorpus(t, key)

	// Stop below six so that no multiple of the key length is in range.
	result, err := BreakRepeatingXOR(context.Background(), cipher, 2, 6)
	if err != nil {
		t.Fatalf("BreakRepeatingXOR: %v", err)
	}
	if string(result.Key) != key {
		t.Fatalf("expected key %x, got %x", key, result.Key)
	}
	if !bytes.Equal(result.Plaintext, plain) {
		t.Fatal("plaintext mismatch")
	}
}

func TestBreakerEmitsAuditEvents(t *testing.T) {
	_, cipher := encryptCorpus(t, corpusKey)

	buf := &bytes.Buffer{}
	audit, err := logging.NewAuditLogger("breaker", logging.WithoutStdout(), logging.WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	breaker := Breaker{Candidates: 2, Audit: audit, RunID: "run-1"}
	if _, err := breaker.Break(context.Background(), cipher); err != nil {
		t.Fatalf("Break: %v", err)
	}

	dec := json.NewDecoder(buf)
	var types []logging.EventType
	for dec.More() {
		var event logging.AuditEvent
		if err := dec.Decode(&event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.RunID != "run-1" {
			t.Fatalf("expected run id to propagate, got %q", event.RunID)
		}
		if event.EventType == logging.EventKeyRecovered && event.Metadata["key"] == corpusKey {
			t.Fatal("expected key material to be redacted")
		}
		types = append(types, event.EventType)
	}
	if len(types) != 2 || types[0] != logging.EventKeySizeRanked || types[1] != logging.EventKeyRecovered {
		t.Fatalf("unexpected event sequence %v", types)
	}
}

func TestBreakerHonoursCancellation(t *testing.T) {
	_, cipher := encryptCorpus(t, corpusKey)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Breaker{}).Break(ctx, cipher); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDetectSingleByteXOR(t *testing.T) {
	target := bitwise.XORScalar([]byte("Now that the party is jumping\n"), '5')
	lines := [][]byte{
		{0x0e, 0x3b, 0x7f, 0x91, 0x22, 0xa0, 0x6c, 0x4d, 0x19, 0xee, 0x03, 0x58},
		{0xcc, 0x17, 0x80, 0x42, 0x9d, 0x31, 0xfa, 0x08, 0x6e, 0xb5, 0x27, 0x73},
		target,
		{0x91, 0xe4, 0x0a, 0x5f, 0xc8, 0x36, 0x7b, 0x2d, 0xaf, 0x14, 0x60, 0xd9},
	}

	match, err := DetectSingleByteXOR(context.Background(), lines)
	if err != nil {
		t.Fatalf("DetectSingleByteXOR: %v", err)
	}
	if match.Index != 2 {
		t.Fatalf("expected line 2, got %d", match.Index)
	}
	if match.Key.Key != '5' {
		t.Fatalf("expected key '5', got %q", match.Key.Key)
	}
	if string(match.Plaintext) != "Now that the party is jumping\n" {
		t.Fatalf("unexpected plaintext %q", match.Plaintext)
	}

	if _, err := DetectSingleByteXOR(context.Background(), nil); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}
