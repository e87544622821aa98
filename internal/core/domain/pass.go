// Package domain defines the core domain models for the gate service.
package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Rotating pass token constants.
const (
	// PassPrefix is the prefix for rotating pass tokens (sensitive,
	// uses underscore).
	PassPrefix = "egps_"

	// PassSignatureBytes is the HMAC-SHA256 signature length.
	PassSignatureBytes = 32

	// DefaultWindowDuration is the default rotation window.
	DefaultWindowDuration = 30 * time.Second

	// DefaultGraceWindows is the default number of adjacent windows
	// accepted on each side of the current one.
	DefaultGraceWindows = 2
)

// WindowIndex returns the rotation window index for the given instant:
// floor(unix_seconds / window_seconds).
func WindowIndex(now time.Time, window time.Duration) int64 {
	if window <= 0 {
		window = DefaultWindowDuration
	}
	return now.Unix() / int64(window/time.Second)
}

// WindowRemaining returns how long the current window is still valid.
func WindowRemaining(now time.Time, window time.Duration) time.Duration {
	if window <= 0 {
		window = DefaultWindowDuration
	}
	sec := int64(window / time.Second)
	elapsed := now.Unix() % sec
	return time.Duration(sec-elapsed) * time.Second
}

// SignPass computes the HMAC-SHA256 signature binding an external attendee
// id to a window index under the service secret.
func SignPass(secret []byte, externalID string, windowIdx int64) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(externalID))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(windowIdx, 10)))
	return mac.Sum(nil)
}

// EncodePass encodes a rotating pass token for the given identity and
// window index. Format: egps_{base64_rawurl(external_id \n window \n sig_b64)}.
//
// The token is a derived value: it is never persisted and carries no
// uniqueness of its own. Multiple scans of the same token within the grace
// range are indistinguishable at the token level; the presence toggle is
// the sole guard against double effect.
func EncodePass(secret []byte, externalID string, windowIdx int64) string {
	sig := SignPass(secret, externalID, windowIdx)
	payload := externalID + "\n" +
		strconv.FormatInt(windowIdx, 10) + "\n" +
		base64.RawURLEncoding.EncodeToString(sig)
	return PassPrefix + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// DecodedPass is the parsed form of a presented rotating token, before
// any signature check.
type DecodedPass struct {
	ExternalID string
	WindowIdx  int64
	Signature  []byte
}

// DecodePass parses a presented rotating token. It checks structure only;
// signature verification against the acceptance range is the verifier's job.
func DecodePass(presented string) (*DecodedPass, error) {
	if !strings.HasPrefix(presented, PassPrefix) {
		return nil, ErrPassMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(presented[len(PassPrefix):])
	if err != nil {
		return nil, ErrPassMalformed.WithCause(err)
	}

	parts := strings.SplitN(string(raw), "\n", 3)
	if len(parts) != 3 || parts[0] == "" {
		return nil, ErrPassMalformed
	}

	idx, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, ErrPassMalformed.WithCause(err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil || len(sig) != PassSignatureBytes {
		return nil, ErrPassMalformed
	}

	return &DecodedPass{
		ExternalID: parts[0],
		WindowIdx:  idx,
		Signature:  sig,
	}, nil
}

// VerifyPassWindow checks a decoded pass signature against a single
// candidate window index using constant-time comparison.
func VerifyPassWindow(secret []byte, p *DecodedPass, windowIdx int64) bool {
	want := SignPass(secret, p.ExternalID, windowIdx)
	return subtle.ConstantTimeCompare(p.Signature, want) == 1
}

// MaskToken masks a sensitive token value for safe logging.
// Example: egps_ABC...xyz
func MaskToken(token string) string {
	if len(token) < 10 {
		return "***REDACTED***"
	}
	if strings.HasPrefix(token, PassPrefix) ||
		strings.HasPrefix(token, StaticTokenPrefix) ||
		strings.HasPrefix(token, DeviceSecretPrefix) {
		prefix := token[:5]
		body := token[5:]
		if len(body) > 6 {
			return prefix + body[:3] + "..." + body[len(body)-3:]
		}
		return prefix + "***"
	}
	return "***REDACTED***"
}
