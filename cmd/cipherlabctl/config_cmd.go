package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RowanDark/cipherlab/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		return runConfigPrint()
	case "init":
		return runConfigInit()
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runConfigPrint() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	if err := printResolvedConfig(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "render config: %v\n", err)
		return 1
	}
	return 0
}

func printResolvedConfig(out io.Writer, cfg config.Config) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// runConfigInit writes the default configuration to ~/.cipherlab/config.yaml
// so it can be edited. An existing file is never overwritten.
func runConfigInit() int {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "determine home directory: %v\n", err)
		return 1
	}

	dir := filepath.Join(home, ".cipherlab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create config directory: %v\n", err)
		return 1
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "config already exists at %s; refusing to overwrite\n", path)
		return 2
	} else if !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "stat config: %v\n", err)
		return 1
	}

	data, err := config.Default().YAML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "render config: %v\n", err)
		return 1
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write config: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Wrote default config to %s\n", path)
	return 0
}
