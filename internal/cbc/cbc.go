// Package cbc chains an ECB block primitive into cipher block chaining
// mode. Each plaintext block is XORed with the previous ciphertext block, or
// the IV for the first block, before it is encrypted.
package cbc

import (
	"errors"
	"fmt"

	"github.com/RowanDark/cipherlab/internal/bitwise"
)

var (
	// ErrInvalidBlockAlignment reports input or IV lengths that do not fit
	// the primitive's block size.
	ErrInvalidBlockAlignment = errors.New("input is not aligned to the block size")
	// ErrEncryptionFailed wraps a primitive failure during encryption.
	ErrEncryptionFailed = errors.New("cbc encryption failed")
	// ErrDecryptionFailed wraps a primitive failure during decryption.
	ErrDecryptionFailed = errors.New("cbc decryption failed")
)

// Primitive is a stateless single-block cipher, such as AES applied in ECB
// fashion to exactly one block.
type Primitive interface {
	BlockSize() int
	EncryptBlock(key, block []byte) ([]byte, error)
	DecryptBlock(key, block []byte) ([]byte, error)
}

// PrimitiveError records which block the primitive rejected.
type PrimitiveError struct {
	Block int
	Err   error
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Block, e.Err)
}

func (e *PrimitiveError) Unwrap() error {
	return e.Err
}

func checkAlignment(data, iv []byte, blockSize int) error {
	if blockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidBlockAlignment, blockSize)
	}
	if len(data)%blockSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBlockAlignment, len(data), blockSize)
	}
	if len(iv) != blockSize {
		return fmt.Errorf("%w: iv is %d bytes, block size is %d", ErrInvalidBlockAlignment, len(iv), blockSize)
	}
	return nil
}

// Encrypt encrypts plain under key. len(plain) must be a multiple of the
// primitive's block size; padding is the caller's concern. Blocks are
// processed in order since each depends on the ciphertext before it.
func Encrypt(plain, key, iv []byte, p Primitive) ([]byte, error) {
	size := p.BlockSize()
	if err := checkAlignment(plain, iv, size); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(plain))
	prev := iv
	for i := 0; i*size < len(plain); i++ {
		mixed, err := bitwise.XORFixed(plain[i*size:(i+1)*size], prev)
		if err != nil {
			return nil, err
		}
		block, err := p.EncryptBlock(key, mixed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, &PrimitiveError{Block: i, Err: err})
		}
		if len(block) != size {
			return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, &PrimitiveError{Block: i, Err: fmt.Errorf("primitive returned %d bytes", len(block))})
		}
		out = append(out, block...)
		prev = block
	}
	return out, nil
}

// Decrypt reverses Encrypt. Every plaintext block depends only on its own
// ciphertext block and the one before it.
func Decrypt(ciphertext, key, iv []byte, p Primitive) ([]byte, error) {
	size := p.BlockSize()
	if err := checkAlignment(ciphertext, iv, size); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ciphertext))
	prev := iv
	for i := 0; i*size < len(ciphertext); i++ {
		current := ciphertext[i*size : (i+1)*size]
		decrypted, err := p.DecryptBlock(key, current)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, &PrimitiveError{Block: i, Err: err})
		}
		plain, err := bitwise.XORFixed(decrypted, prev)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, &PrimitiveError{Block: i, Err: err})
		}
		out = append(out, plain...)
		prev = current
	}
	return out, nil
}
