package redact

import (
	"reflect"
	"testing"
)

func TestMapMasksSensitiveFields(t *testing.T) {
	input := map[string]any{
		"key":      "YELLOW SUBMARINE",
		"iv_hex":   "000102030405060708090a0b0c0d0e0f",
		"key_size": 16,
		"raw":      []byte{1, 2, 3},
	}
	masked := Map(input)
	for _, field := range []string{"key", "iv_hex", "raw"} {
		if masked[field] != redactedKey {
			t.Fatalf("expected %s to be masked, got %#v", field, masked[field])
		}
	}
	if masked["key_size"] != 16 {
		t.Fatalf("expected key_size to survive, got %#v", masked["key_size"])
	}
	if input["key"] != "YELLOW SUBMARINE" {
		t.Fatal("input map must not be modified")
	}
}

func TestMapAppliesNeverPersistMask(t *testing.T) {
	input := map[string]any{
		"plaintext":     "attack at dawn",
		"nested":        []any{"key=ICEICEICE"},
		"never_persist": []any{"plaintext", "missing"},
	}
	masked := Map(input)
	if _, exists := masked["never_persist"]; exists {
		t.Fatalf("never_persist key should be removed")
	}
	if masked["plaintext"] != redactedKey {
		t.Fatalf("expected plaintext to be masked, got %#v", masked["plaintext"])
	}
	nested, ok := masked["nested"].([]any)
	if !ok || len(nested) != 1 {
		t.Fatalf("expected nested slice to be preserved, got %#v", masked["nested"])
	}
	if item, _ := nested[0].(string); item != "key=[REDACTED_KEY]" {
		t.Fatalf("expected nested value to be redacted, got %q", item)
	}
}

func TestMapStringAppliesNeverPersistMask(t *testing.T) {
	input := map[string]string{
		"plaintext":     "attack at dawn",
		"another_field": "ok",
		"never_persist": "plaintext, missing",
	}
	masked := MapString(input)
	if _, exists := masked["never_persist"]; exists {
		t.Fatalf("never_persist key should be removed")
	}
	if val := masked["plaintext"]; val != redactedKey {
		t.Fatalf("expected plaintext to be masked, got %q", val)
	}
	if val := masked["another_field"]; val != "ok" {
		t.Fatalf("unexpected value for another_field: %q", val)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"blank", "  ", "  "},
		{"plain text", "decrypted 4 blocks", "decrypted 4 blocks"},
		{"key assignment", "bad key=YELLOW", "bad key=[REDACTED_KEY]"},
		{"quoted iv", `iv: "0011223344"`, `iv: "[REDACTED_KEY]"`},
		{"long hex", "ciphertext 0b3637272a2b2e63622c2e69692a23693a2a3c63 done", "ciphertext [REDACTED_KEY] done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMapNilAndEmpty(t *testing.T) {
	if got := Map(nil); got != nil {
		t.Fatalf("expected nil input to return nil, got %#v", got)
	}
	if got := Map(map[string]any{}); got != nil {
		t.Fatalf("expected empty map to return nil, got %#v", got)
	}
	if got := MapString(nil); got != nil {
		t.Fatalf("expected nil string map to return nil, got %#v", got)
	}
}

func TestSliceRedactsValues(t *testing.T) {
	out := Slice([]string{"secret=hunter2hunter2", "  "})
	expected := []string{"secret=[REDACTED_KEY]", "  "}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}
