// Package codec converts between raw bytes and their hex, base64 and UTF-8
// text renderings.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DecodeHex decodes a hex string. Surrounding whitespace and a leading 0x are
// ignored.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex decode failed: %w", err)
	}
	return decoded, nil
}

// EncodeHex renders b as lowercase hex.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeBase64 decodes standard base64, skipping whitespace and line breaks
// so that wrapped fixture files decode directly.
func DecodeBase64(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}
	return decoded, nil
}

// EncodeBase64 renders b as padded standard base64.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// HexToBase64 re-encodes a hex string as base64.
func HexToBase64(s string) (string, error) {
	raw, err := DecodeHex(s)
	if err != nil {
		return "", err
	}
	return EncodeBase64(raw), nil
}

// Text returns b as a string when it is valid UTF-8.
func Text(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
