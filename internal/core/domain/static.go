// Package domain defines the core domain models for the gate service.
package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Static token constants.
const (
	// StaticTokenPrefix is the prefix for non-rotating asset tokens.
	StaticTokenPrefix = "egst_"

	// StaticSignatureBytes is the HMAC-SHA256 signature length.
	StaticSignatureBytes = 32
)

// SignStatic computes the HMAC-SHA256 signature over an asset id. No time
// component: static tokens identify fixed physical assets (stall badges)
// that legitimate holders are expected to photograph and distribute freely,
// so there is no anti-replay requirement.
func SignStatic(secret []byte, assetID string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("static"))
	mac.Write([]byte{0})
	mac.Write([]byte(assetID))
	return mac.Sum(nil)
}

// EncodeStaticToken encodes a non-expiring signed identifier for an asset.
// Format: egst_{base64_rawurl(asset_id \n sig_b64)}. Issued once at asset
// provisioning time and persisted alongside the asset record.
func EncodeStaticToken(secret []byte, assetID string) string {
	sig := SignStatic(secret, assetID)
	payload := assetID + "\n" + base64.RawURLEncoding.EncodeToString(sig)
	return StaticTokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// DecodeStaticToken parses a static token without verifying its signature.
func DecodeStaticToken(token string) (assetID string, sig []byte, err error) {
	if !strings.HasPrefix(token, StaticTokenPrefix) {
		return "", nil, ErrPassMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(token[len(StaticTokenPrefix):])
	if err != nil {
		return "", nil, ErrPassMalformed.WithCause(err)
	}

	parts := strings.SplitN(string(raw), "\n", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, ErrPassMalformed
	}

	sig, err = base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(sig) != StaticSignatureBytes {
		return "", nil, ErrPassMalformed
	}

	return parts[0], sig, nil
}

// VerifyStaticToken verifies a static token and returns the bound asset id.
// Rejection happens only on signature mismatch, never on age.
func VerifyStaticToken(secret []byte, token string) (string, error) {
	assetID, sig, err := DecodeStaticToken(token)
	if err != nil {
		return "", err
	}

	want := SignStatic(secret, assetID)
	if subtle.ConstantTimeCompare(sig, want) != 1 {
		return "", ErrStaticTokenInvalid
	}
	return assetID, nil
}
