package cipher

import (
	"context"
	"fmt"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/codec"
	"github.com/RowanDark/cipherlab/internal/cryptanalysis"
)

// XORSingleOp XORs every byte with a single-byte key.
type XORSingleOp struct {
	BaseOperation
}

func (op *XORSingleOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, err := byteKeyParam(params)
	if err != nil {
		return nil, err
	}
	return bitwise.XORScalar(input, key), nil
}

// XORRepeatingOp XORs the input with a key repeated to its length.
type XORRepeatingOp struct {
	BaseOperation
}

func (op *XORRepeatingOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, err
	}
	return bitwise.XORRepeating(input, key)
}

// XORFixedOp XORs the input with an equal-length buffer given as other_hex.
type XORFixedOp struct {
	BaseOperation
}

func (op *XORFixedOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	otherHex, ok := stringParam(params, "other_hex")
	if !ok {
		return nil, fmt.Errorf("%w: other_hex", ErrMissingParameter)
	}
	other, err := codec.DecodeHex(otherHex)
	if err != nil {
		return nil, fmt.Errorf("parameter other_hex: %w", err)
	}
	return bitwise.XORFixed(input, other)
}

// XORBreakOp recovers the plaintext of repeating-key XOR ciphertext.
type XORBreakOp struct {
	BaseOperation
}

func (op *XORBreakOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	breaker, err := breakerFromParams(params)
	if err != nil {
		return nil, err
	}
	result, err := breaker.Break(ctx, input)
	if err != nil {
		return nil, err
	}
	return result.Plaintext, nil
}

func breakerFromParams(params map[string]any) (cryptanalysis.Breaker, error) {
	var (
		b   cryptanalysis.Breaker
		err error
	)
	if b.MinKeySize, err = intParam(params, "min_key_size", cryptanalysis.DefaultMinKeySize); err != nil {
		return b, err
	}
	if b.MaxKeySize, err = intParam(params, "max_key_size", cryptanalysis.DefaultMaxKeySize); err != nil {
		return b, err
	}
	if b.Candidates, err = intParam(params, "candidates", 1); err != nil {
		return b, err
	}
	if b.Workers, err = intParam(params, "workers", 0); err != nil {
		return b, err
	}
	return b, nil
}

// XORSolveSingleOp decodes single-byte XOR ciphertext with the best-scoring
// key.
type XORSolveSingleOp struct {
	BaseOperation
}

func (op *XORSolveSingleOp) Execute(ctx context.Context, input []byte, params map[string]any) ([]byte, error) {
	best, ok := cryptanalysis.SolveSingleByteXOR(input)
	if !ok {
		return []byte{}, nil
	}
	return bitwise.XORScalar(input, best.Key), nil
}

func xorOperations() []Operation {
	single := &XORSingleOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_single",
			TypeValue:        OperationTypeXOR,
			DescriptionValue: "XOR every byte with a single-byte key",
		},
	}
	single.ReverseOp = single

	repeating := &XORRepeatingOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_repeating",
			TypeValue:        OperationTypeXOR,
			DescriptionValue: "XOR with a repeating key",
		},
	}
	repeating.ReverseOp = repeating

	fixed := &XORFixedOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_fixed",
			TypeValue:        OperationTypeXOR,
			DescriptionValue: "XOR with an equal-length hex buffer",
		},
	}
	fixed.ReverseOp = fixed

	breakOp := &XORBreakOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_break",
			TypeValue:        OperationTypeAnalyze,
			DescriptionValue: "Recover repeating-key XOR plaintext by key size estimation and frequency analysis",
		},
	}

	solve := &XORSolveSingleOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_solve_single",
			TypeValue:        OperationTypeAnalyze,
			DescriptionValue: "Recover single-byte XOR plaintext by frequency analysis",
		},
	}

	return []Operation{single, repeating, fixed, breakOp, solve}
}
