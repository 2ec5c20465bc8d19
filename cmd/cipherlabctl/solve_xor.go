package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/RowanDark/cipherlab/internal/bitwise"
	"github.com/RowanDark/cipherlab/internal/cryptanalysis"
	"github.com/RowanDark/cipherlab/internal/logging"
)

func runSolveXOR(args []string) int {
	fs := flag.NewFlagSet("solve-xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "hex")
	top := fs.Int("top", 1, "number of ranked keys to print")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *top < 1 {
		fmt.Fprintln(os.Stderr, "--top must be at least 1")
		return 2
	}

	sess, err := openSession("solve-xor", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}
	ranked := cryptanalysis.RankSingleByteXOR(data, *top)
	if len(ranked) == 0 {
		fmt.Fprintln(os.Stderr, "solve-xor: input is empty")
		return 1
	}
	for _, k := range ranked {
		plaintext := bitwise.XORScalar(data, k.Key)
		fmt.Printf("key 0x%02x %-6s score %-5d %s\n", k.Key, strconv.QuoteRune(rune(k.Key)), k.Score, strconv.Quote(string(plaintext)))
	}
	return 0
}

func runDetectXOR(args []string) int {
	fs := flag.NewFlagSet("detect-xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "hex")
	audit := fs.Bool("audit", false, "write audit events to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession("detect-xor", *audit)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	lines, err := input.lines(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	match, err := cryptanalysis.DetectSingleByteXOR(ctx, lines)
	if err != nil {
		return exitCode("detect-xor", err)
	}
	_ = sess.audit.Emit(logging.AuditEvent{
		EventType: logging.EventLineDetected,
		Decision:  logging.DecisionSuccess,
		Metadata: map[string]any{
			"line":  match.Index,
			"lines": len(lines),
			"score": match.Key.Score,
		},
	})

	fmt.Printf("Line: %d\n", match.Index+1)
	fmt.Printf("Key: 0x%02x %s\n", match.Key.Key, strconv.QuoteRune(rune(match.Key.Key)))
	fmt.Printf("Score: %d\n", match.Key.Score)
	fmt.Printf("Plaintext: %s\n", strconv.Quote(string(match.Plaintext)))
	return 0
}

func runHamming(args []string) int {
	fs := flag.NewFlagSet("hamming", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	a := fs.String("a", "", "first string")
	b := fs.String("b", "", "second string")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	left, right := *a, *b
	if left == "" && right == "" && fs.NArg() == 2 {
		left, right = fs.Arg(0), fs.Arg(1)
	}
	distance, err := bitwise.HammingDistance([]byte(left), []byte(right))
	if err != nil {
		return exitCode("hamming", fmt.Errorf("%w: %w", errUsage, err))
	}
	fmt.Println(distance)
	return 0
}
