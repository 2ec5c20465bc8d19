package cipher

import (
	"context"
	"fmt"

	"github.com/RowanDark/cipherlab/internal/blockcipher"
	"github.com/RowanDark/cipherlab/internal/cbc"
	"github.com/RowanDark/cipherlab/internal/codec"
)

// PKCS#7 Operations

// PKCS7PadOp appends PKCS#7 padding for block_size (default 16).
type PKCS7PadOp struct {
	BaseOperation
}

func (op *PKCS7PadOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	size, err := intParam(params, "block_size", blockcipher.BlockSize)
	if err != nil {
		return nil, err
	}
	return blockcipher.Pad(input, size)
}

// PKCS7UnpadOp strips and verifies PKCS#7 padding.
type PKCS7UnpadOp struct {
	BaseOperation
}

func (op *PKCS7UnpadOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	size, err := intParam(params, "block_size", blockcipher.BlockSize)
	if err != nil {
		return nil, err
	}
	return blockcipher.Unpad(input, size)
}

// AES-ECB Operations

// AESECBEncryptOp encrypts block-aligned input with AES in ECB mode
type AESECBEncryptOp struct {
	BaseOperation
}

func (op *AESECBEncryptOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, err
	}
	return blockcipher.EncryptECB(input, key)
}

// AESECBDecryptOp decrypts AES-ECB ciphertext
type AESECBDecryptOp struct {
	BaseOperation
}

func (op *AESECBDecryptOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, err
	}
	return blockcipher.DecryptECB(input, key)
}

// AES-CBC Operations

// AESCBCEncryptOp encrypts block-aligned input with AES in CBC mode. The IV
// is read from iv_hex and defaults to all zeros.
type AESCBCEncryptOp struct {
	BaseOperation
}

func (op *AESCBCEncryptOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, iv, err := cbcParams(params)
	if err != nil {
		return nil, err
	}
	return cbc.Encrypt(input, key, iv, blockcipher.AES{})
}

// AESCBCDecryptOp decrypts AES-CBC ciphertext
type AESCBCDecryptOp struct {
	BaseOperation
}

func (op *AESCBCDecryptOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, iv, err := cbcParams(params)
	if err != nil {
		return nil, err
	}
	return cbc.Decrypt(input, key, iv, blockcipher.AES{})
}

func cbcParams(params map[string]any) ([]byte, []byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, nil, err
	}
	ivHex, ok := stringParam(params, "iv_hex")
	if !ok || ivHex == "" {
		return key, make([]byte, blockcipher.BlockSize), nil
	}
	iv, err := codec.DecodeHex(ivHex)
	if err != nil {
		return nil, nil, fmt.Errorf("parameter iv_hex: %w", err)
	}
	return key, iv, nil
}

func blockOperations() []Operation {
	pad := &PKCS7PadOp{
		BaseOperation: BaseOperation{
			NameValue:        "pkcs7_pad",
			TypeValue:        OperationTypePad,
			DescriptionValue: "Append PKCS#7 padding",
		},
	}
	unpad := &PKCS7UnpadOp{
		BaseOperation: BaseOperation{
			NameValue:        "pkcs7_unpad",
			TypeValue:        OperationTypePad,
			DescriptionValue: "Strip and verify PKCS#7 padding",
		},
	}
	pad.ReverseOp = unpad
	unpad.ReverseOp = pad

	ecbEncrypt := &AESECBEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "aes_ecb_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encrypt with AES in ECB mode",
		},
	}
	ecbDecrypt := &AESECBDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "aes_ecb_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decrypt AES-ECB ciphertext",
		},
	}
	ecbEncrypt.ReverseOp = ecbDecrypt
	ecbDecrypt.ReverseOp = ecbEncrypt

	cbcEncrypt := &AESCBCEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "aes_cbc_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encrypt with AES in CBC mode built over the ECB primitive",
		},
	}
	cbcDecrypt := &AESCBCDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "aes_cbc_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decrypt AES-CBC ciphertext",
		},
	}
	cbcEncrypt.ReverseOp = cbcDecrypt
	cbcDecrypt.ReverseOp = cbcEncrypt

	return []Operation{pad, unpad, ecbEncrypt, ecbDecrypt, cbcEncrypt, cbcDecrypt}
}
