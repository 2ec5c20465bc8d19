package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/blockcipher"
	"github.com/RowanDark/cipherlab/internal/cbc"
	"github.com/RowanDark/cipherlab/internal/codec"
	"github.com/RowanDark/cipherlab/internal/logging"
)

func runCBC(args []string, encrypt bool) int {
	name := "cbc decrypt"
	if encrypt {
		name = "cbc encrypt"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	var key keyFlags
	key.register(fs, "AES key")
	ivHex := fs.String("iv-hex", "", "initialisation vector as hex (default all zeros)")
	padding := fs.Bool("pad", true, "apply PKCS#7 padding before encrypting or strip it after decrypting")
	audit := fs.Bool("audit", false, "write audit events to stderr")
	var output *string
	if encrypt {
		input.register(fs, "raw")
		output = fs.String("output", "base64", "output encoding (hex, base64, raw)")
	} else {
		input.register(fs, "base64")
		output = fs.String("output", "raw", "output encoding (hex, base64, raw)")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("cbc", *audit)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	keyBytes, err := key.bytes()
	if err != nil {
		return exitCode(name, err)
	}
	iv := make([]byte, sess.cfg.CBC.BlockSize)
	if *ivHex != "" {
		if iv, err = codec.DecodeHex(*ivHex); err != nil {
			return exitCode(name, fmt.Errorf("%w: %w", errUsage, err))
		}
	}
	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	var result []byte
	if encrypt {
		result, err = cbcEncrypt(data, keyBytes, iv, *padding)
	} else {
		result, err = cbcDecrypt(data, keyBytes, iv, *padding)
	}
	if err != nil {
		reportCBCFailure(sess.audit, encrypt, err)
		return exitCode(name, err)
	}

	event := logging.EventCBCDecrypt
	if encrypt {
		event = logging.EventCBCEncrypt
	}
	_ = sess.audit.Emit(logging.AuditEvent{
		EventType: event,
		Decision:  logging.DecisionSuccess,
		Metadata: map[string]any{
			"input_bytes":  len(data),
			"output_bytes": len(result),
			"padded":       *padding,
			"iv_hex":       codec.EncodeHex(iv),
		},
	})

	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}

func cbcEncrypt(data, key, iv []byte, pad bool) ([]byte, error) {
	if pad {
		var err error
		if data, err = blockcipher.Pad(data, blockcipher.BlockSize); err != nil {
			return nil, err
		}
	}
	return cbc.Encrypt(data, key, iv, blockcipher.AES{})
}

func cbcDecrypt(data, key, iv []byte, unpad bool) ([]byte, error) {
	plain, err := cbc.Decrypt(data, key, iv, blockcipher.AES{})
	if err != nil || !unpad {
		return plain, err
	}
	return blockcipher.Unpad(plain, blockcipher.BlockSize)
}

func reportCBCFailure(audit *logging.AuditLogger, encrypt bool, err error) {
	direction := "decrypt"
	if encrypt {
		direction = "encrypt"
	}
	var primErr *cbc.PrimitiveError
	if errors.As(err, &primErr) {
		_ = audit.Emit(logging.AuditEvent{
			EventType: logging.EventPrimitiveError,
			Decision:  logging.DecisionFailure,
			Reason:    err.Error(),
			Metadata:  map[string]any{"block": primErr.Block, "direction": direction},
		})
		return
	}
	event := logging.EventCBCDecrypt
	if encrypt {
		event = logging.EventCBCEncrypt
	}
	_ = audit.Emit(logging.AuditEvent{
		EventType: event,
		Decision:  logging.DecisionFailure,
		Reason:    err.Error(),
	})
}

func runECB(args []string, encrypt bool) int {
	name := "ecb decrypt"
	if encrypt {
		name = "ecb encrypt"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	var key keyFlags
	key.register(fs, "AES key")
	padding := fs.Bool("pad", true, "apply PKCS#7 padding before encrypting or strip it after decrypting")
	var output *string
	if encrypt {
		input.register(fs, "raw")
		output = fs.String("output", "base64", "output encoding (hex, base64, raw)")
	} else {
		input.register(fs, "base64")
		output = fs.String("output", "raw", "output encoding (hex, base64, raw)")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("ecb", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	keyBytes, err := key.bytes()
	if err != nil {
		return exitCode(name, err)
	}
	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	var result []byte
	if encrypt {
		if *padding {
			if data, err = blockcipher.Pad(data, blockcipher.BlockSize); err != nil {
				return exitCode(name, err)
			}
		}
		result, err = blockcipher.EncryptECB(data, keyBytes)
	} else {
		result, err = blockcipher.DecryptECB(data, keyBytes)
		if err == nil && *padding {
			result, err = blockcipher.Unpad(result, blockcipher.BlockSize)
		}
	}
	if err != nil {
		return exitCode(name, err)
	}
	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}

func runDetectECB(args []string) int {
	fs := flag.NewFlagSet("detect-ecb", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "hex")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession("detect-ecb", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	lines, err := input.lines(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}
	found := 0
	for i, line := range lines {
		repeats := bitwise.RepeatedBlocks(line, blockcipher.BlockSize)
		if repeats == 0 {
			continue
		}
		found++
		fmt.Printf("Line %d: %d repeated blocks\n", i+1, repeats)
	}
	if found == 0 {
		fmt.Println("No ECB-encrypted lines found")
	}
	return 0
}

func runPad(args []string) int {
	fs := flag.NewFlagSet("pad", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "raw")
	blockSize := fs.Int("block-size", blockcipher.BlockSize, "block size in bytes (1-255)")
	strip := fs.Bool("unpad", false, "validate and strip padding instead of adding it")
	output := fs.String("output", "quoted", "output encoding (quoted, hex, base64, raw)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *output != "quoted" && !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("pad", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}
	var result []byte
	if *strip {
		result, err = blockcipher.Unpad(data, *blockSize)
	} else {
		result, err = blockcipher.Pad(data, *blockSize)
	}
	if err != nil {
		return exitCode("pad", err)
	}
	if *output == "quoted" {
		fmt.Printf("%q\n", result)
		return 0
	}
	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}
