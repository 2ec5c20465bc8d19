package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/codec"
)

// keyFlags reads a key given either as text or as hex.
type keyFlags struct {
	text   string
	hexKey string
}

func (k *keyFlags) register(fs *flag.FlagSet, what string) {
	fs.StringVar(&k.text, "key", "", what+" as text")
	fs.StringVar(&k.hexKey, "key-hex", "", what+" as hex")
}

func (k *keyFlags) bytes() ([]byte, error) {
	switch {
	case k.text != "" && k.hexKey != "":
		return nil, fmt.Errorf("%w: -key and -key-hex are mutually exclusive", errUsage)
	case k.hexKey != "":
		return codec.DecodeHex(k.hexKey)
	case k.text != "":
		return []byte(k.text), nil
	default:
		return nil, fmt.Errorf("%w: -key or -key-hex is required", errUsage)
	}
}

func runXOR(args []string) int {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "raw")
	var key keyFlags
	key.register(fs, "XOR key")
	fixed := fs.Bool("fixed", false, "require the key to be exactly as long as the input")
	output := fs.String("output", "hex", "output encoding (hex, base64, raw)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("xor", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	keyBytes, err := key.bytes()
	if err != nil {
		return exitCode("xor", err)
	}
	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	var result []byte
	if *fixed {
		result, err = bitwise.XORFixed(data, keyBytes)
	} else {
		result, err = bitwise.XORRepeating(data, keyBytes)
	}
	if err != nil {
		return exitCode("xor", err)
	}
	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}
