package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RowanDark/cipherlab/internal/codec"
	"github.com/RowanDark/cipherlab/internal/cryptanalysis"
)

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type breakOutput struct {
	KeySize   int                          `json:"key_size"`
	Key       string                       `json:"key"`
	KeyHex    string                       `json:"key_hex"`
	Score     int                          `json:"score"`
	Plaintext string                       `json:"plaintext"`
	Ranking   []cryptanalysis.KeySizeScore `json:"ranking,omitempty"`
}

func runBreakXOR(args []string) int {
	fs := flag.NewFlagSet("break-xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "base64")
	minSize := fs.Int("min", 0, "smallest key size tried (default from config)")
	maxSize := fs.Int("max", 0, "key sizes tried stay below this (default from config)")
	candidates := fs.Int("candidates", 0, "number of top-ranked key sizes to decode (default from config)")
	workers := fs.Int("workers", -1, "concurrent scoring goroutines, 0 for GOMAXPROCS (default from config)")
	top := fs.Int("top", 0, "also print the best N key size scores")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	audit := fs.Bool("audit", false, "write audit events to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "break-xor takes no positional arguments")
		return 2
	}

	sess, err := openSession("break-xor", *audit)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	breaker := cryptanalysis.Breaker{
		MinKeySize: sess.cfg.Analysis.MinKeySize,
		MaxKeySize: sess.cfg.Analysis.MaxKeySize,
		Candidates: sess.cfg.Analysis.Candidates,
		Workers:    sess.cfg.Analysis.Workers,
		Audit:      sess.audit,
		RunID:      sess.runID,
	}
	if *minSize > 0 {
		breaker.MinKeySize = *minSize
	}
	if *maxSize > 0 {
		breaker.MaxKeySize = *maxSize
	}
	if *candidates > 0 {
		breaker.Candidates = *candidates
	}
	if *workers >= 0 {
		breaker.Workers = *workers
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := breaker.Break(ctx, data)
	if err != nil {
		if errors.Is(err, cryptanalysis.ErrInvalidKeySize) {
			return exitCode("break-xor", fmt.Errorf("%w: %w", errUsage, err))
		}
		return exitCode("break-xor", err)
	}

	out := breakOutput{
		KeySize:   result.KeySize,
		Key:       string(result.Key),
		KeyHex:    codec.EncodeHex(result.Key),
		Score:     result.Score,
		Plaintext: string(result.Plaintext),
	}
	if *top > 0 {
		out.Ranking = result.Ranking[:min(*top, len(result.Ranking))]
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return exitCode("encode result", err)
		}
		return 0
	}

	fmt.Printf("Key size: %d\n", out.KeySize)
	fmt.Printf("Key: %q\n", out.Key)
	fmt.Printf("Key (hex): %s\n", out.KeyHex)
	fmt.Printf("Score: %d\n", out.Score)
	for _, r := range out.Ranking {
		fmt.Printf("  key size %2d  distance %.4f\n", r.KeySize, r.Score)
	}
	fmt.Println()
	if err := writeOutput(os.Stdout, "raw", result.Plaintext); err != nil {
		return exitCode("write output", err)
	}
	return 0
}
