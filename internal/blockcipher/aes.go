// Package blockcipher provides the raw AES primitive used beneath the CBC
// chainer, whole-buffer ECB, PKCS#7 padding and ECB detection.
package blockcipher

import (
	"crypto/aes"
	"errors"
	"fmt"

	"github.com/andreburgaud/crypt2go/ecb"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/cbc"
)

// BlockSize is the AES block size in bytes.
const BlockSize = aes.BlockSize

// ErrInvalidBlockAlignment is shared with the CBC chainer so callers can test
// for either with a single errors.Is.
var ErrInvalidBlockAlignment = cbc.ErrInvalidBlockAlignment

// ErrInvalidKey reports a key that AES rejects.
var ErrInvalidKey = errors.New("invalid aes key")

// AES applies AES to exactly one block per call. It satisfies cbc.Primitive.
type AES struct{}

var _ cbc.Primitive = AES{}

// BlockSize implements cbc.Primitive.
func (AES) BlockSize() int { return BlockSize }

// EncryptBlock encrypts a single block.
func (AES) EncryptBlock(key, block []byte) ([]byte, error) {
	return cryptBlocks(key, block, true)
}

// DecryptBlock decrypts a single block.
func (AES) DecryptBlock(key, block []byte) ([]byte, error) {
	return cryptBlocks(key, block, false)
}

// EncryptECB encrypts every block of data independently under key.
func EncryptECB(data, key []byte) ([]byte, error) {
	return cryptBlocks(key, data, true)
}

// DecryptECB decrypts every block of data independently under key.
func DecryptECB(data, key []byte) ([]byte, error) {
	return cryptBlocks(key, data, false)
}

func cryptBlocks(key, data []byte, encrypt bool) ([]byte, error) {
	if len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBlockAlignment, len(data), BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	mode := ecb.NewECBDecrypter(block)
	if encrypt {
		mode = ecb.NewECBEncrypter(block)
	}
	out := make([]byte, len(data))
	mode.CryptBlocks(out, data)
	return out, nil
}

// DetectECB reports whether data repeats any blockSize-byte block, the
// signature of ECB encrypting repeated plaintext.
func DetectECB(data []byte, blockSize int) bool {
	return bitwise.HasRepeatedBlocks(data, blockSize)
}
