// Package redact masks key material before it is written to audit logs.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	neverPersistKey = "never_persist"
	redactedKey     = "[REDACTED_KEY]"
)

// sensitiveFields are metadata names whose values are always masked.
var sensitiveFields = map[string]struct{}{
	"key":      {},
	"key_hex":  {},
	"iv":       {},
	"iv_hex":   {},
	"secret":   {},
	"password": {},
}

var (
	kvKeyRe   = regexp.MustCompile(`(?i)\b((?:key|iv|secret|password)(?:_hex)?\s*[:=]\s*)(['"]?)([^\s'"]{4,})(['"]?)`)
	longHexRe = regexp.MustCompile(`\b[0-9A-Fa-f]{32,}\b`)
)

// String masks key=value style key material and long hex runs in s.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	masked := kvKeyRe.ReplaceAllString(in, `$1$2`+redactedKey+`$4`)
	return longHexRe.ReplaceAllString(masked, redactedKey)
}

// IsSensitive reports whether values stored under name are always masked.
func IsSensitive(name string) bool {
	_, ok := sensitiveFields[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Interface redacts recognised values within nested structures.
func Interface(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case []byte:
		return redactedKey
	case fmt.Stringer:
		return String(v.String())
	case []string:
		return Slice(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Interface(elem)
		}
		return out
	case map[string]string:
		return MapString(v)
	case map[string]any:
		return Map(v)
	default:
		return value
	}
}

// Map returns a copy of in with sensitive fields, fields listed under
// never_persist, and key material inside string values masked.
func Map(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	var extra []string
	if raw, ok := in[neverPersistKey]; ok {
		extra = neverPersistNames(raw)
	}
	hidden := hiddenFields(extra)
	out := make(map[string]any, len(in))
	for k, v := range in {
		if strings.EqualFold(k, neverPersistKey) {
			continue
		}
		if _, ok := hidden[k]; ok || IsSensitive(k) {
			out[k] = redactedKey
			continue
		}
		out[k] = Interface(v)
	}
	return out
}

// MapString is Map for string-valued maps.
func MapString(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	hidden := hiddenFields(splitNames(in[neverPersistKey]))
	out := make(map[string]string, len(in))
	for k, v := range in {
		if strings.EqualFold(k, neverPersistKey) {
			continue
		}
		if _, ok := hidden[k]; ok || IsSensitive(k) {
			out[k] = redactedKey
			continue
		}
		out[k] = String(v)
	}
	return out
}

// Slice redacts every element of in.
func Slice(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = String(v)
	}
	return out
}

func neverPersistNames(value any) []string {
	switch v := value.(type) {
	case string:
		return splitNames(v)
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			out = append(out, fmt.Sprint(elem))
		}
		return out
	default:
		return nil
	}
}

func splitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func hiddenFields(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}
