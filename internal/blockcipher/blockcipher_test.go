package blockcipher

import (
	"bytes"
	"crypto/aes"
	"errors"
	"testing"
)

var yellow = []byte("YELLOW SUBMARINE")

func TestAESBlockMatchesStdlib(t *testing.T) {
	block, err := aes.NewCipher(yellow)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	plain := []byte("sixteen byte msg")
	want := make([]byte, 16)
	block.Encrypt(want, plain)

	got, err := AES{}.EncryptBlock(yellow, plain)
	if err != nil {
		t.Fatalf("encrypt block: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %x, got %x", want, got)
	}
	back, err := AES{}.DecryptBlock(yellow, got)
	if err != nil {
		t.Fatalf("decrypt block: %v", err)
	}
	if !bytes.Equal(back, plain) {
		t.Fatalf("expected %q, got %q", plain, back)
	}
}

func TestAESRejectsBadKey(t *testing.T) {
	if _, err := (AES{}).EncryptBlock([]byte("short"), make([]byte, 16)); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestECBRoundTripAndDetection(t *testing.T) {
	plain := bytes.Repeat([]byte("0123456789abcdef"), 3)
	ciphertext, err := EncryptECB(plain, yellow)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if !DetectECB(ciphertext, BlockSize) {
		t.Fatal("expected repeated ECB blocks to be detected")
	}
	back, err := DecryptECB(ciphertext, yellow)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(back, plain) {
		t.Fatalf("round trip mismatch: %q", back)
	}
	if _, err := EncryptECB(plain[:10], yellow); !errors.Is(err, ErrInvalidBlockAlignment) {
		t.Fatalf("expected alignment error, got %v", err)
	}
}

func TestPad(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		blockSize int
		want      string
	}{
		{"yellow submarine", "YELLOW SUBMARINE", 20, "YELLOW SUBMARINE\x04\x04\x04\x04"},
		{"blue submarine", "BLUE SUBMARINE", 10, "BLUE SUBMARINE\x06\x06\x06\x06\x06\x06"},
		{"aligned", "YELLOW SUBMARINE", 16, "YELLOW SUBMARINE" + string(bytes.Repeat([]byte{16}, 16))},
		{"empty", "", 4, "\x04\x04\x04\x04"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pad([]byte(tc.input), tc.blockSize)
			if err != nil {
				t.Fatalf("pad: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			back, err := Unpad(got, tc.blockSize)
			if err != nil {
				t.Fatalf("unpad: %v", err)
			}
			if string(back) != tc.input {
				t.Fatalf("expected %q after unpad, got %q", tc.input, back)
			}
		})
	}
}

func TestPadDoesNotTouchCallerBuffer(t *testing.T) {
	buf := make([]byte, 3, 16)
	copy(buf, "abc")
	if _, err := Pad(buf, 8); err != nil {
		t.Fatalf("pad: %v", err)
	}
	if tail := buf[:cap(buf)][3]; tail != 0 {
		t.Fatalf("caller backing array was written: %x", tail)
	}
}

func TestUnpadRejectsBadPadding(t *testing.T) {
	cases := map[string][]byte{
		"wrong count": []byte("ICE ICE BABY\x05\x05\x05\x05"),
		"mixed bytes": []byte("ICE ICE BABY\x01\x02\x03\x04"),
		"zero pad":    []byte("ICE ICE BABY\x00\x00\x00\x00"),
		"misaligned":  []byte("ICE ICE BABY\x04\x04\x04"),
		"empty":       {},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Unpad(input, 16); !errors.Is(err, ErrInvalidPadding) {
				t.Fatalf("expected ErrInvalidPadding, got %v", err)
			}
		})
	}
}

func TestPadRejectsBlockSize(t *testing.T) {
	for _, size := range []int{0, 256} {
		if _, err := Pad([]byte("x"), size); !errors.Is(err, ErrInvalidPadding) {
			t.Fatalf("block size %d: expected ErrInvalidPadding, got %v", size, err)
		}
	}
}
