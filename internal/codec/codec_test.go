package codec

import (
	"bytes"
	"testing"
)

func TestHexToBase64(t *testing.T) {
	in := "49276d206b696c6c696e6720796f757220627261696e206c696b65206120706f69736f6e6f7573206d757368726f6f6d"
	want := "SSdtIGtpbGxpbmcgeW91ciBicmFpbiBsaWtlIGEgcG9pc29ub3VzIG11c2hyb29t"
	got, err := HexToBase64(in)
	if err != nil {
		t.Fatalf("hex to base64: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"plain", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"prefixed", "0x0102", []byte{1, 2}, false},
		{"trailing newline", "ff\n", []byte{0xff}, false},
		{"empty", "", []byte{}, false},
		{"odd length", "abc", nil, true},
		{"not hex", "zz", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("expected %x, got %x", tt.want, got)
			}
		})
	}
}

func TestDecodeBase64IgnoresLineBreaks(t *testing.T) {
	wrapped := "SSdtIGtpbGxpbmcgeW91ciBicmFp\nbiBsaWtlIGEgcG9pc29ub3VzIG11c2hyb29t\r\n"
	got, err := DecodeBase64(wrapped)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != "I'm killing your brain like a poisonous mushroom" {
		t.Fatalf("unexpected plaintext %q", got)
	}
	if _, err := DecodeBase64("not*base64"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 0xfe, 0xff}
	if back, err := DecodeHex(EncodeHex(raw)); err != nil || !bytes.Equal(back, raw) {
		t.Fatalf("hex round trip failed: %x, %v", back, err)
	}
	if back, err := DecodeBase64(EncodeBase64(raw)); err != nil || !bytes.Equal(back, raw) {
		t.Fatalf("base64 round trip failed: %x, %v", back, err)
	}
}

func TestText(t *testing.T) {
	if s, ok := Text([]byte("héllo")); !ok || s != "héllo" {
		t.Fatalf("expected valid text, got %q %v", s, ok)
	}
	if _, ok := Text([]byte{0xff, 0xfe}); ok {
		t.Fatal("expected invalid UTF-8 to be rejected")
	}
}
