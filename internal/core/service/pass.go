// Package service provides the domain services of the gate core.
package service

import (
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// PassConfig holds configuration for the rotating pass codec.
type PassConfig struct {
	// Secret is the HMAC secret shared by the issuing and verifying side.
	Secret []byte

	// WindowDuration is the rotation window (default: 30s).
	WindowDuration time.Duration

	// GraceWindows is the number of adjacent windows accepted on each
	// side of the current one (default: 2).
	GraceWindows int
}

// DefaultPassConfig returns the default pass configuration for a secret.
func DefaultPassConfig(secret []byte) PassConfig {
	return PassConfig{
		Secret:         secret,
		WindowDuration: domain.DefaultWindowDuration,
		GraceWindows:   domain.DefaultGraceWindows,
	}
}

// PassService issues and verifies time-rotating pass tokens.
//
// Issue is stateless and deterministic given the clock: the same identity
// in the same window always yields the same token. Verify accepts the
// current window plus GraceWindows on both sides to absorb clock skew
// between issuer and verifier and the latency of a human holding a phone
// up to a scanner.
type PassService struct {
	cfg PassConfig
}

// NewPassService creates a PassService, applying defaults to zero fields.
func NewPassService(cfg PassConfig) *PassService {
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = domain.DefaultWindowDuration
	}
	if cfg.GraceWindows <= 0 {
		cfg.GraceWindows = domain.DefaultGraceWindows
	}
	return &PassService{cfg: cfg}
}

// Issue derives the display token for an identity at the given instant.
func (s *PassService) Issue(externalID string, now time.Time) string {
	idx := domain.WindowIndex(now, s.cfg.WindowDuration)
	return domain.EncodePass(s.cfg.Secret, externalID, idx)
}

// Verify checks a presented token against the acceptance range around now
// and returns the bound external identity.
//
// Every candidate window is tried even after a match so the work done is
// independent of which window matched. A malformed encoding yields
// ErrPassMalformed; a structurally valid token whose signature matches no
// candidate window yields ErrPassInvalid. Callers surface both uniformly.
func (s *PassService) Verify(presented string, now time.Time) (string, error) {
	p, err := domain.DecodePass(presented)
	if err != nil {
		return "", err
	}

	center := domain.WindowIndex(now, s.cfg.WindowDuration)
	matched := false
	for idx := center - int64(s.cfg.GraceWindows); idx <= center+int64(s.cfg.GraceWindows); idx++ {
		if p.WindowIdx == idx && domain.VerifyPassWindow(s.cfg.Secret, p, idx) {
			matched = true
		}
	}
	if !matched {
		return "", domain.ErrPassInvalid
	}
	return p.ExternalID, nil
}

// RotationInfo describes the pass rotation schedule so display clients can
// pre-fetch the next code before the current one expires.
type RotationInfo struct {
	SecondsUntilRotation int64 `json:"seconds_until_rotation"`
	RotationInterval     int64 `json:"rotation_interval"`
	GracePeriodSeconds   int64 `json:"grace_period_seconds"`
}

// Rotation returns the rotation metadata for the given instant.
func (s *PassService) Rotation(now time.Time) RotationInfo {
	return RotationInfo{
		SecondsUntilRotation: int64(domain.WindowRemaining(now, s.cfg.WindowDuration) / time.Second),
		RotationInterval:     int64(s.cfg.WindowDuration / time.Second),
		GracePeriodSeconds:   int64(s.cfg.GraceWindows) * int64(s.cfg.WindowDuration/time.Second),
	}
}

// StaticService issues and verifies non-rotating signed asset tokens.
type StaticService struct {
	secret []byte
}

// NewStaticService creates a StaticService.
func NewStaticService(secret []byte) *StaticService {
	return &StaticService{secret: secret}
}

// Issue produces the signed identifier for an asset. Called once at asset
// provisioning time; the result is persisted alongside the asset record.
func (s *StaticService) Issue(assetID string) string {
	return domain.EncodeStaticToken(s.secret, assetID)
}

// Verify checks a static token's signature and returns the bound asset id.
func (s *StaticService) Verify(token string) (string, error) {
	return domain.VerifyStaticToken(s.secret, token)
}
