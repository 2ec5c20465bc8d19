// Package bitwise holds the byte-level helpers shared by the analysis and
// chaining code: XOR in its scalar, fixed and repeating forms, Hamming
// distance, and block chunking.
package bitwise

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch reports operands whose lengths must be equal but are not.
	ErrLengthMismatch = errors.New("operand lengths differ")
	// ErrInvalidLength reports an XOR key that cannot be aligned with its data.
	ErrInvalidLength = errors.New("invalid xor key length")
)

// XORScalar XORs every byte of data with key.
func XORScalar(data []byte, key byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key
	}
	return out
}

// XORSequence XORs data with key. When repeat is set the key is cycled over
// data; otherwise both must have the same length.
func XORSequence(data, key []byte, repeat bool) ([]byte, error) {
	if len(key) == 0 {
		if len(data) == 0 && !repeat {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("%w: empty key", ErrInvalidLength)
	}
	if !repeat && len(data) != len(key) {
		return nil, fmt.Errorf("%w: data is %d bytes, key is %d", ErrInvalidLength, len(data), len(key))
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out, nil
}

// XORFixed XORs two equal-length sequences.
func XORFixed(a, b []byte) ([]byte, error) {
	return XORSequence(a, b, false)
}

// XORRepeating XORs data with key repeated to the length of data.
func XORRepeating(data, key []byte) ([]byte, error) {
	return XORSequence(data, key, true)
}
