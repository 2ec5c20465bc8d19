package cipher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/cipherlab/internal/codec"
)

// ErrMissingParameter reports a required operation parameter that was not
// supplied.
var ErrMissingParameter = errors.New("missing parameter")

// Parameters arrive from three places: Go callers, YAML recipes (int) and
// JSON or the command line (float64, string). The helpers accept all of them.

func intParam(params map[string]any, name string, fallback int) (int, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("parameter %s: %v is not an integer", name, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parameter %s: unsupported type %T", name, raw)
	}
}

func stringParam(params map[string]any, name string) (string, bool) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// keyParam reads key material from "key_hex" when present, else from "key"
// taken literally.
func keyParam(params map[string]any) ([]byte, error) {
	if hexKey, ok := stringParam(params, "key_hex"); ok {
		key, err := codec.DecodeHex(hexKey)
		if err != nil {
			return nil, fmt.Errorf("parameter key_hex: %w", err)
		}
		return key, nil
	}
	if raw, ok := params["key"].([]byte); ok {
		return raw, nil
	}
	if key, ok := stringParam(params, "key"); ok && key != "" {
		return []byte(key), nil
	}
	return nil, fmt.Errorf("%w: key", ErrMissingParameter)
}

// byteKeyParam reads a single-byte key. Numbers are taken as the byte value
// and one-character strings as that character.
func byteKeyParam(params map[string]any) (byte, error) {
	raw, ok := params["key"]
	if !ok || raw == nil {
		if _, hexOK := params["key_hex"]; !hexOK {
			return 0, fmt.Errorf("%w: key", ErrMissingParameter)
		}
		key, err := keyParam(params)
		if err != nil {
			return 0, err
		}
		if len(key) != 1 {
			return 0, fmt.Errorf("parameter key_hex: expected one byte, got %d", len(key))
		}
		return key[0], nil
	}
	if s, isString := raw.(string); isString && len(s) == 1 {
		return s[0], nil
	}
	n, err := intParam(params, "key", 0)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("parameter key: %d is outside 0..255", n)
	}
	return byte(n), nil
}
