package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

var testSecret = []byte("gate-service-test-secret")

func newTestPassService() *PassService {
	return NewPassService(PassConfig{
		Secret:         testSecret,
		WindowDuration: 30 * time.Second,
		GraceWindows:   2,
	})
}

func TestPassIssueVerifyRoundtrip(t *testing.T) {
	svc := newTestPassService()
	now := time.Unix(3000, 0) // window 100

	token := svc.Issue("2021SE042", now)
	subject, err := svc.Verify(token, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "2021SE042" {
		t.Errorf("subject = %q, want 2021SE042", subject)
	}
}

func TestPassGraceRange(t *testing.T) {
	svc := newTestPassService()
	issued := time.Unix(3000, 0) // window 100
	token := svc.Issue("2021SE042", issued)

	tests := []struct {
		name   string
		window int64
		accept bool
	}{
		{"three windows stale", 97, false},
		{"two windows stale", 98, true},
		{"one window stale", 99, true},
		{"current window", 100, true},
		{"one window ahead", 101, true},
		{"two windows ahead", 102, true},
		{"three windows ahead", 103, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Unix(tt.window*30, 5)
			subject, err := svc.Verify(token, at)
			if tt.accept {
				if err != nil {
					t.Fatalf("Verify at window %d: %v", tt.window, err)
				}
				if subject != "2021SE042" {
					t.Errorf("subject = %q", subject)
				}
				return
			}
			if !errors.Is(err, domain.ErrPassInvalid) {
				t.Errorf("Verify at window %d = %v, want ErrPassInvalid", tt.window, err)
			}
		})
	}
}

func TestPassVerifyWrongSecret(t *testing.T) {
	issuer := NewPassService(PassConfig{Secret: []byte("issuer-secret")})
	verifier := NewPassService(PassConfig{Secret: []byte("other-secret")})

	now := time.Unix(3000, 0)
	token := issuer.Issue("2021SE042", now)
	if _, err := verifier.Verify(token, now); !errors.Is(err, domain.ErrPassInvalid) {
		t.Errorf("Verify with wrong secret = %v, want ErrPassInvalid", err)
	}
}

func TestPassVerifyMalformed(t *testing.T) {
	svc := newTestPassService()
	now := time.Unix(3000, 0)

	for _, presented := range []string{"", "nonsense", "egst_abc", "egps_!!!"} {
		if _, err := svc.Verify(presented, now); !errors.Is(err, domain.ErrPassMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrPassMalformed", presented, err)
		}
	}
}

func TestPassIssueDeterministicWithinWindow(t *testing.T) {
	svc := newTestPassService()

	a := svc.Issue("2021SE042", time.Unix(3000, 0))
	b := svc.Issue("2021SE042", time.Unix(3029, 999_000_000))
	if a != b {
		t.Error("tokens within one window should be identical")
	}

	c := svc.Issue("2021SE042", time.Unix(3030, 0))
	if a == c {
		t.Error("tokens in adjacent windows should differ")
	}
}

func TestPassRotationInfo(t *testing.T) {
	svc := newTestPassService()

	// 12 seconds into window 100: 18 seconds remain.
	info := svc.Rotation(time.Unix(3012, 0))
	if info.SecondsUntilRotation != 18 {
		t.Errorf("SecondsUntilRotation = %d, want 18", info.SecondsUntilRotation)
	}
	if info.RotationInterval != 30 {
		t.Errorf("RotationInterval = %d, want 30", info.RotationInterval)
	}
	if info.GracePeriodSeconds != 60 {
		t.Errorf("GracePeriodSeconds = %d, want 60", info.GracePeriodSeconds)
	}
}

func TestStaticIssueVerify(t *testing.T) {
	svc := NewStaticService(testSecret)

	token := svc.Issue("asset-printer-007")
	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "asset-printer-007" {
		t.Errorf("subject = %q, want asset-printer-007", subject)
	}

	other := NewStaticService([]byte("other-secret"))
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrStaticTokenInvalid) {
		t.Errorf("Verify with wrong secret = %v, want ErrStaticTokenInvalid", err)
	}
}
