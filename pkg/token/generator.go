// Package token provides random token generation utilities.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// DefaultLength is the number of random bytes in a token produced by
// Generate.
const DefaultLength = 32

// Generate returns a random token with the default length.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns length bytes from crypto/rand encoded as
// Base64 RawURL, safe to embed in headers and URLs.
func GenerateWithLength(length int) (string, error) {
	raw, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// GenerateBytes returns length bytes from crypto/rand.
func GenerateBytes(length int) ([]byte, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return raw, nil
}
