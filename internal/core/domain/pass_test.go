// Package domain defines the core domain models for the gate service.
package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("gate-service-test-secret")

func TestWindowIndex(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		window time.Duration
		want   int64
	}{
		{
			name:   "epoch is window zero",
			now:    time.Unix(0, 0),
			window: 30 * time.Second,
			want:   0,
		},
		{
			name:   "last second of a window",
			now:    time.Unix(29, 0),
			window: 30 * time.Second,
			want:   0,
		},
		{
			name:   "first second of the next window",
			now:    time.Unix(30, 0),
			window: 30 * time.Second,
			want:   1,
		},
		{
			name:   "window index 100",
			now:    time.Unix(3000, 0),
			window: 30 * time.Second,
			want:   100,
		},
		{
			name:   "zero window falls back to default",
			now:    time.Unix(60, 0),
			window: 0,
			want:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowIndex(tt.now, tt.window); got != tt.want {
				t.Errorf("WindowIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWindowRemaining(t *testing.T) {
	if got := WindowRemaining(time.Unix(5, 0), 30*time.Second); got != 25*time.Second {
		t.Errorf("WindowRemaining() = %v, want 25s", got)
	}
	if got := WindowRemaining(time.Unix(30, 0), 30*time.Second); got != 30*time.Second {
		t.Errorf("WindowRemaining() at window start = %v, want 30s", got)
	}
}

func TestEncodeDecodePass(t *testing.T) {
	token := EncodePass(testSecret, "2021SE042", 100)

	if !strings.HasPrefix(token, PassPrefix) {
		t.Errorf("token should have prefix %q, got %q", PassPrefix, token)
	}

	p, err := DecodePass(token)
	if err != nil {
		t.Fatalf("DecodePass() error = %v", err)
	}
	if p.ExternalID != "2021SE042" {
		t.Errorf("ExternalID = %q, want %q", p.ExternalID, "2021SE042")
	}
	if p.WindowIdx != 100 {
		t.Errorf("WindowIdx = %d, want 100", p.WindowIdx)
	}
	if !VerifyPassWindow(testSecret, p, 100) {
		t.Error("signature should verify for the issuing window")
	}
	if VerifyPassWindow(testSecret, p, 101) {
		t.Error("signature must not verify for a different window")
	}
	if VerifyPassWindow([]byte("other-secret"), p, 100) {
		t.Error("signature must not verify under a different secret")
	}
}

func TestDecodePass_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "wrong prefix", token: "egst_abc"},
		{name: "not base64", token: PassPrefix + "!!!not-base64!!!"},
		{name: "missing fields", token: PassPrefix + "YWJj"}, // "abc"
		{name: "non-numeric window", token: PassPrefix + "MjAyMVNFMDQyCm5vcGUKc2ln"},
		{name: "short signature", token: PassPrefix + "MjAyMVNFMDQyCjEwMApZV0pq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePass(tt.token)
			if !errors.Is(err, ErrPassMalformed) {
				t.Errorf("DecodePass(%q) error = %v, want ErrPassMalformed", tt.token, err)
			}
		})
	}
}

func TestSignPass_Deterministic(t *testing.T) {
	a := SignPass(testSecret, "2021SE042", 7)
	b := SignPass(testSecret, "2021SE042", 7)
	if string(a) != string(b) {
		t.Error("SignPass should be deterministic")
	}

	// Identity and window must both be bound.
	if string(a) == string(SignPass(testSecret, "2021SE043", 7)) {
		t.Error("different identities should produce different signatures")
	}
	if string(a) == string(SignPass(testSecret, "2021SE042", 8)) {
		t.Error("different windows should produce different signatures")
	}
}

func TestMaskToken(t *testing.T) {
	token := EncodePass(testSecret, "2021SE042", 100)
	masked := MaskToken(token)

	if masked == token {
		t.Error("masked token must differ from the original")
	}
	if !strings.HasPrefix(masked, PassPrefix) {
		t.Errorf("mask should keep the prefix, got %q", masked)
	}
	if len(masked) >= len(token) {
		t.Errorf("mask should shorten the token, got %q", masked)
	}

	if got := MaskToken("short"); got != "***REDACTED***" {
		t.Errorf("MaskToken(short) = %q", got)
	}
	if got := MaskToken("unknown_prefix_value_here"); got != "***REDACTED***" {
		t.Errorf("MaskToken(unknown) = %q", got)
	}
}
