package cipher

import (
	"context"

	"github.com/RowanDark/cipherlab/internal/codec"
)

// Base64 Operations

// Base64EncodeOp encodes data as standard Base64
type Base64EncodeOp struct {
	BaseOperation
}

func (op *Base64EncodeOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	return []byte(codec.EncodeBase64(input)), nil
}

// Base64DecodeOp decodes standard Base64 data, ignoring line breaks.
type Base64DecodeOp struct {
	BaseOperation
}

func (op *Base64DecodeOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	return codec.DecodeBase64(string(input))
}

// Hex Operations

// HexEncodeOp encodes bytes as hexadecimal string
type HexEncodeOp struct {
	BaseOperation
}

func (op *HexEncodeOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	return []byte(codec.EncodeHex(input)), nil
}

// HexDecodeOp decodes hexadecimal string to bytes
type HexDecodeOp struct {
	BaseOperation
}

func (op *HexDecodeOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	return codec.DecodeHex(string(input))
}

func encodingOperations() []Operation {
	base64Encode := &Base64EncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode data as standard Base64",
		},
	}
	base64Decode := &Base64DecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode standard Base64 data",
		},
	}
	base64Encode.ReverseOp = base64Decode
	base64Decode.ReverseOp = base64Encode

	hexEncode := &HexEncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode bytes as hexadecimal string",
		},
	}
	hexDecode := &HexDecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode hexadecimal string to bytes",
		},
	}
	hexEncode.ReverseOp = hexDecode
	hexDecode.ReverseOp = hexEncode

	return []Operation{base64Encode, base64Decode, hexEncode, hexDecode}
}
