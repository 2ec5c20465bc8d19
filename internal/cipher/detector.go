package cipher

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/blockcipher"
	"github.com/RowanDark/cipherlab/internal/codec"
	"github.com/RowanDark/cipherlab/internal/cryptanalysis"
)

const (
	minConfidence = 0.3
	// minXORInput is the shortest input worth a frequency-analysis guess.
	minXORInput = 16
	// minBreakInput is the shortest input handed to the repeating-key breaker.
	minBreakInput = 64
)

var (
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)
	hexPattern    = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// SmartDetector ranks hypotheses about what a buffer is: a textual encoding,
// AES-ECB ciphertext, or XOR ciphertext with a recoverable key.
type SmartDetector struct {
	// MaxKeySize bounds the repeating-key search. Zero uses the breaker default.
	MaxKeySize int
}

// NewSmartDetector creates a new smart detector
func NewSmartDetector() *SmartDetector {
	return &SmartDetector{}
}

// Detect attempts to identify the encoding of the input
func (d *SmartDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	var results []DetectionResult
	results = append(results, d.detectBase64(input)...)
	results = append(results, d.detectHex(input)...)
	results = append(results, d.detectECB(input)...)
	results = append(results, d.detectSingleByteXOR(input)...)

	repeating, err := d.detectRepeatingXOR(ctx, input)
	if err != nil {
		return nil, err
	}
	results = append(results, repeating...)

	slices.SortStableFunc(results, func(a, b DetectionResult) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	filtered := results[:0]
	for _, r := range results {
		if r.Confidence >= minConfidence {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// SupportedEncodings returns a list of encodings this detector can identify
func (d *SmartDetector) SupportedEncodings() []string {
	return []string{
		"base64",
		"hex",
		"aes-ecb",
		"single-byte-xor",
		"repeating-key-xor",
	}
}

// detectBase64 checks if input is Base64 encoded
func (d *SmartDetector) detectBase64(input []byte) []DetectionResult {
	compact := strings.Join(strings.Fields(string(input)), "")
	if compact == "" || !base64Pattern.MatchString(compact) {
		return nil
	}
	if _, err := codec.DecodeBase64(compact); err != nil {
		return nil
	}

	confidence := 0.9
	// Hex digits are also valid base64 characters.
	if hexPattern.MatchString(compact) {
		confidence = 0.5
	}
	return []DetectionResult{{
		Encoding:   "base64",
		Confidence: confidence,
		Reasoning:  "Matches Base64 pattern and decodes successfully",
		Operation:  "base64_decode",
	}}
}

// detectHex checks if input is hexadecimal
func (d *SmartDetector) detectHex(input []byte) []DetectionResult {
	inputStr := strings.TrimSpace(string(input))
	cleaned, hasPrefix := strings.CutPrefix(inputStr, "0x")
	if !hexPattern.MatchString(cleaned) || len(cleaned)%2 != 0 {
		return nil
	}

	confidence := 0.8
	if hasPrefix {
		confidence = 0.95
	}
	// All digits could just as well be decimal.
	if digitsPattern.MatchString(cleaned) {
		confidence *= 0.6
	}
	return []DetectionResult{{
		Encoding:   "hex",
		Confidence: confidence,
		Reasoning:  "Matches hexadecimal pattern",
		Operation:  "hex_decode",
	}}
}

// detectECB flags raw input whose 16-byte blocks repeat.
func (d *SmartDetector) detectECB(input []byte) []DetectionResult {
	if len(input)%blockcipher.BlockSize != 0 {
		return nil
	}
	repeats := bitwise.RepeatedBlocks(input, blockcipher.BlockSize)
	if repeats == 0 {
		return nil
	}
	return []DetectionResult{{
		Encoding:   "aes-ecb",
		Confidence: math.Min(0.6+0.1*float64(repeats), 0.99),
		Reasoning:  fmt.Sprintf("%d repeated %d-byte blocks", repeats, blockcipher.BlockSize),
		Operation:  "aes_ecb_decrypt",
	}}
}

// detectSingleByteXOR reports input that decodes to English under one
// non-zero key.
func (d *SmartDetector) detectSingleByteXOR(input []byte) []DetectionResult {
	if len(input) < minXORInput || englishRatio(input) >= 0.8 {
		return nil
	}
	best, ok := cryptanalysis.SolveSingleByteXOR(input)
	if !ok || best.Key == 0 {
		return nil
	}
	ratio := englishRatio(bitwise.XORScalar(input, best.Key))
	if ratio < 0.75 {
		return nil
	}
	return []DetectionResult{{
		Encoding:   "single-byte-xor",
		Confidence: ratio * 0.9,
		Reasoning:  fmt.Sprintf("Decodes to English text under key 0x%02x", best.Key),
		Operation:  "xor_single",
		Parameters: map[string]any{"key": int(best.Key)},
	}}
}

// detectRepeatingXOR runs the repeating-key breaker and reports a key longer
// than one byte that yields English text.
func (d *SmartDetector) detectRepeatingXOR(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) < minBreakInput {
		return nil, nil
	}
	// Text that already reads as English is not ciphertext; the breaker
	// would only find case-flipping keys for it.
	if englishRatio(input) >= 0.8 {
		return nil, nil
	}
	maxSize := d.MaxKeySize
	if maxSize <= 0 {
		maxSize = cryptanalysis.DefaultMaxKeySize
	}
	// Leave at least four blocks per key size.
	maxSize = min(maxSize, len(input)/4+1)
	if maxSize <= cryptanalysis.DefaultMinKeySize {
		return nil, nil
	}

	breaker := cryptanalysis.Breaker{MinKeySize: cryptanalysis.DefaultMinKeySize, MaxKeySize: maxSize, Candidates: 3}
	result, err := breaker.Break(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if isRepeatedByte(result.Key) || mostlyZero(result.Key) {
		return nil, nil
	}
	ratio := englishRatio(result.Plaintext)
	if ratio < 0.8 {
		return nil, nil
	}
	return []DetectionResult{{
		Encoding:   "repeating-key-xor",
		Confidence: ratio * 0.85,
		Reasoning:  fmt.Sprintf("Key size %d recovers English text", result.KeySize),
		Operation:  "xor_repeating",
		Parameters: map[string]any{"key_hex": codec.EncodeHex(result.Key)},
	}}, nil
}

func isRepeatedByte(key []byte) bool {
	for _, b := range key[1:] {
		if b != key[0] {
			return false
		}
	}
	return true
}

// mostlyZero reports whether at least half of key is 0x00, which leaves
// those positions of the input unchanged.
func mostlyZero(key []byte) bool {
	zeros := 0
	for _, b := range key {
		if b == 0 {
			zeros++
		}
	}
	return 2*zeros >= len(key)
}

// englishRatio is the fraction of bytes that are ASCII letters, spaces or
// common punctuation.
func englishRatio(text []byte) float64 {
	if len(text) == 0 {
		return 0
	}
	count := 0
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == ' ':
			count++
		case strings.IndexByte(".,;:'\"!?-\n", c) >= 0:
			count++
		}
	}
	return float64(count) / float64(len(text))
}

// DecodeAll attempts to decode using all detected encodings
func DecodeAll(ctx context.Context, input []byte) ([]DecodeResult, error) {
	detector := NewSmartDetector()
	detections, err := detector.Detect(ctx, input)
	if err != nil {
		return nil, err
	}

	var results []DecodeResult
	for _, detection := range detections {
		op, exists := GetOperation(detection.Operation)
		if !exists {
			continue
		}

		decoded, err := op.Execute(ctx, input, detection.Parameters)
		if err != nil {
			// Hypotheses needing a key the detector cannot supply end here.
			continue
		}

		results = append(results, DecodeResult{
			Detection: detection,
			Decoded:   decoded,
			Success:   true,
		})
	}

	return results, nil
}

// DecodeResult represents the result of a decode attempt
type DecodeResult struct {
	Detection DetectionResult `json:"detection"`
	Decoded   []byte          `json:"decoded"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
}
