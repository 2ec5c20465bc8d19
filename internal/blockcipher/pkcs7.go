package blockcipher

import (
	"errors"
	"fmt"
	"slices"

	"github.com/andreburgaud/crypt2go/padding"
)

// ErrInvalidPadding reports a PKCS#7 trailer that does not verify, or a
// block size outside 1..255.
var ErrInvalidPadding = errors.New("invalid pkcs7 padding")

// Pad appends PKCS#7 padding so that len(data) becomes a multiple of
// blockSize. A full block of padding is added when data is already aligned.
func Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > 255 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidPadding, blockSize)
	}
	padded, err := padding.NewPkcs7Padding(blockSize).Pad(slices.Clip(slices.Clone(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPadding, err)
	}
	return padded, nil
}

// Unpad strips and verifies PKCS#7 padding.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > 255 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidPadding, blockSize)
	}
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}
	if n := int(data[len(data)-1]); n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: trailer byte %d", ErrInvalidPadding, n)
	}
	unpadded, err := padding.NewPkcs7Padding(blockSize).Unpad(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPadding, err)
	}
	return unpadded, nil
}
