package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/codec"
)

// opList collects repeated -op flags. Each value is an operation name,
// optionally followed by a colon and comma separated key=value parameters:
//
//	-op xor_repeating:key=ICE -op hex_encode
type opList []cipher.OperationConfig

func (l *opList) String() string {
	names := make([]string, len(*l))
	for i, op := range *l {
		names[i] = op.Name
	}
	return strings.Join(names, ",")
}

func (l *opList) Set(value string) error {
	op, err := parseOp(value)
	if err != nil {
		return err
	}
	*l = append(*l, op)
	return nil
}

func parseOp(value string) (cipher.OperationConfig, error) {
	name, rest, hasParams := strings.Cut(strings.TrimSpace(value), ":")
	if name == "" {
		return cipher.OperationConfig{}, fmt.Errorf("operation name required in %q", value)
	}
	op := cipher.OperationConfig{Name: name}
	if !hasParams || rest == "" {
		return op, nil
	}
	op.Parameters = make(map[string]any)
	for _, pair := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return cipher.OperationConfig{}, fmt.Errorf("parameter %q of %s must be key=value", pair, name)
		}
		op.Parameters[strings.TrimSpace(k)] = v
	}
	return op, nil
}

func runPipeline(args []string) int {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "raw")
	var ops opList
	fs.Var(&ops, "op", "operation to apply, as name or name:key=value,... (repeatable)")
	reverse := fs.Bool("reverse", false, "run the inverse of the pipeline")
	output := fs.String("output", "raw", "output encoding (hex, base64, raw)")
	audit := fs.Bool("audit", false, "write audit events to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if len(ops) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -op is required")
		return 2
	}
	if !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("pipeline", *audit)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	p := &cipher.Pipeline{Operations: ops, Reversible: *reverse}
	ctx, cancel := commandContext()
	defer cancel()

	result, err := executePipeline(ctx, sess, p, *reverse, data)
	if err != nil {
		return exitCode("pipeline", err)
	}
	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}

func executePipeline(ctx context.Context, sess *session, p *cipher.Pipeline, reverse bool, data []byte) ([]byte, error) {
	if reverse {
		reversed, err := p.Reverse()
		if err != nil {
			return nil, err
		}
		p = reversed
	}
	runner := &cipher.Runner{Audit: sess.audit}
	return runner.Run(ctx, p, data)
}

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "raw")
	decode := fs.Bool("decode", false, "apply each suggested operation and print the result")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession("detect", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	detector := cipher.NewSmartDetector()
	detector.MaxKeySize = sess.cfg.Analysis.MaxKeySize
	detections, err := detector.Detect(ctx, data)
	if err != nil {
		return exitCode("detect", err)
	}
	if len(detections) == 0 {
		fmt.Println("No encoding detected")
		return 0
	}
	for _, d := range detections {
		fmt.Printf("%-18s %5.2f  %s (%s)\n", d.Encoding, d.Confidence, d.Operation, d.Reasoning)
		if !*decode {
			continue
		}
		op, ok := cipher.GetOperation(d.Operation)
		if !ok {
			continue
		}
		decoded, err := op.Execute(ctx, data, d.Parameters)
		if err != nil {
			fmt.Printf("  decode failed: %v\n", err)
			continue
		}
		if text, ok := codec.Text(decoded); ok {
			fmt.Printf("  %s\n", strconv.Quote(text))
		} else {
			fmt.Printf("  %s\n", codec.EncodeHex(decoded))
		}
	}
	return 0
}
