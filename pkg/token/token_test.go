package token

import (
	"encoding/base64"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not valid Base64 RawURL: %v", err)
	}
	if len(raw) != DefaultLength {
		t.Errorf("decoded length = %d, want %d", len(raw), DefaultLength)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestGenerateWithLength(t *testing.T) {
	for _, n := range []int{1, 16, 64} {
		tok, err := GenerateWithLength(n)
		if err != nil {
			t.Fatalf("GenerateWithLength(%d) error = %v", n, err)
		}
		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(raw) != n {
			t.Errorf("decoded length = %d, want %d", len(raw), n)
		}
	}
}

func TestGenerateBytes(t *testing.T) {
	b, err := GenerateBytes(24)
	if err != nil {
		t.Fatalf("GenerateBytes() error = %v", err)
	}
	if len(b) != 24 {
		t.Errorf("length = %d, want 24", len(b))
	}
}
