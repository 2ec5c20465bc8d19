package bitwise

import (
	"fmt"
	"math/bits"
)

// HammingDistance returns the number of differing bits between a and b.
func HammingDistance(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d bytes", ErrLengthMismatch, len(a), len(b))
	}
	distance := 0
	for i := range a {
		distance += bits.OnesCount8(a[i] ^ b[i])
	}
	return distance, nil
}
