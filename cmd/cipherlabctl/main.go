package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "cipherlab"
const cliBanner = productName + " CLI (cipherlabctl)"

func init() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, cliBanner)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage: cipherlabctl <command> [flags]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Analysis:")
		fmt.Fprintln(out, "  break-xor        recover a repeating XOR key and plaintext")
		fmt.Fprintln(out, "  solve-xor        rank single-byte XOR keys")
		fmt.Fprintln(out, "  detect-xor       find the single-byte XOR line in a file of hex lines")
		fmt.Fprintln(out, "  detect-ecb       find AES-ECB lines in a file of hex lines")
		fmt.Fprintln(out, "  detect           guess what a buffer is")
		fmt.Fprintln(out, "  hamming          bit-level edit distance of two strings")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Transforms:")
		fmt.Fprintln(out, "  xor              repeating or fixed XOR")
		fmt.Fprintln(out, "  cbc encrypt|decrypt")
		fmt.Fprintln(out, "  ecb encrypt|decrypt")
		fmt.Fprintln(out, "  pad              PKCS#7 padding")
		fmt.Fprintln(out, "  pipeline         run a chain of operations")
		fmt.Fprintln(out, "  recipe save|list|run|delete")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Other:")
		fmt.Fprintln(out, "  config print|init")
		fmt.Fprintln(out, "  version")
	}
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(dispatch(args))
}

func dispatch(args []string) int {
	switch args[0] {
	case "break-xor":
		return runBreakXOR(args[1:])
	case "solve-xor":
		return runSolveXOR(args[1:])
	case "detect-xor":
		return runDetectXOR(args[1:])
	case "detect-ecb":
		return runDetectECB(args[1:])
	case "detect":
		return runDetect(args[1:])
	case "hamming":
		return runHamming(args[1:])
	case "xor":
		return runXOR(args[1:])
	case "cbc":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "cbc subcommand required")
			return 2
		}
		switch args[1] {
		case "encrypt":
			return runCBC(args[2:], true)
		case "decrypt":
			return runCBC(args[2:], false)
		default:
			fmt.Fprintf(os.Stderr, "unknown cbc subcommand: %s\n", args[1])
			return 2
		}
	case "ecb":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "ecb subcommand required")
			return 2
		}
		switch args[1] {
		case "encrypt":
			return runECB(args[2:], true)
		case "decrypt":
			return runECB(args[2:], false)
		default:
			fmt.Fprintf(os.Stderr, "unknown ecb subcommand: %s\n", args[1])
			return 2
		}
	case "pad":
		return runPad(args[1:])
	case "pipeline":
		return runPipeline(args[1:])
	case "recipe":
		return runRecipe(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		return 2
	}
}
