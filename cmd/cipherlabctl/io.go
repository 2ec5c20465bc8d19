package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RowanDark/cipherlab/internal/codec"
	"github.com/RowanDark/cipherlab/internal/resources"
)

// errUsage marks input errors that should exit with status 2.
var errUsage = errors.New("usage")

// inputSource is the common set of flags naming where a command reads its
// bytes from. Exactly one source must be given.
type inputSource struct {
	path     string
	resource string
	hexValue string
	text     string
	format   string
}

func (s *inputSource) register(fs *flag.FlagSet, defaultFormat string) {
	fs.StringVar(&s.path, "in", "", "read input from `file` (- for stdin)")
	fs.StringVar(&s.resource, "resource", "", "read input from the named fixture in the resources directory")
	fs.StringVar(&s.hexValue, "hex", "", "input given inline as hex")
	fs.StringVar(&s.text, "text", "", "input given inline as text")
	fs.StringVar(&s.format, "format", defaultFormat, "encoding of -in and -resource content (hex, base64, raw)")
}

// content returns the undecoded input and whether it still needs decoding
// according to -format.
func (s *inputSource) content(resourcesDir string) (string, bool, error) {
	set := 0
	for _, v := range []string{s.path, s.resource, s.hexValue, s.text} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", false, fmt.Errorf("%w: exactly one of -in, -resource, -hex or -text is required", errUsage)
	}

	switch {
	case s.hexValue != "":
		return s.hexValue, false, nil
	case s.text != "":
		return s.text, false, nil
	case s.resource != "":
		if resourcesDir == "" {
			resourcesDir = resources.DefaultRoot()
		}
		content, err := resources.NewLoader(resourcesDir).Load(s.resource)
		return content, true, err
	default:
		var (
			data []byte
			err  error
		)
		if s.path == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(s.path)
		}
		if err != nil {
			return "", false, fmt.Errorf("read input: %w", err)
		}
		return string(data), true, nil
	}
}

// read returns the input bytes.
func (s *inputSource) read(resourcesDir string) ([]byte, error) {
	content, encoded, err := s.content(resourcesDir)
	if err != nil {
		return nil, err
	}
	if s.hexValue != "" {
		return codec.DecodeHex(content)
	}
	if !encoded {
		return []byte(content), nil
	}
	return decodeAs(s.format, content)
}

// lines returns every non-empty input line decoded according to -format.
func (s *inputSource) lines(resourcesDir string) ([][]byte, error) {
	content, _, err := s.content(resourcesDir)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		decoded, err := decodeAs(s.format, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, decoded)
	}
	return out, nil
}

func decodeAs(format, content string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "hex":
		return codec.DecodeHex(strings.Join(strings.Fields(content), ""))
	case "base64":
		return codec.DecodeBase64(content)
	case "raw", "":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected hex, base64 or raw)", errUsage, format)
	}
}

func validOutputFormat(format string) bool {
	switch format {
	case "hex", "base64", "raw":
		return true
	}
	return false
}

// writeOutput prints data to stdout in the requested encoding.
func writeOutput(out io.Writer, format string, data []byte) error {
	var err error
	switch format {
	case "hex":
		_, err = fmt.Fprintln(out, codec.EncodeHex(data))
	case "base64":
		_, err = fmt.Fprintln(out, codec.EncodeBase64(data))
	default:
		_, err = out.Write(data)
		if err == nil && (len(data) == 0 || data[len(data)-1] != '\n') {
			_, err = fmt.Fprintln(out)
		}
	}
	return err
}

// exitCode reports an error on stderr and maps it to a process status.
func exitCode(context string, err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", context, err)
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
