// Package service provides the domain services of the gate core.
package service

import (
	"errors"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// Scheme tags the verification scheme that resolved an identity.
type Scheme string

const (
	// SchemeRotating is the time-rotating pass scheme.
	SchemeRotating Scheme = "rotating"

	// SchemeStatic is the legacy non-rotating signed-identifier scheme.
	SchemeStatic Scheme = "static"
)

// Identity is the tagged result of a successful verification.
type Identity struct {
	// Scheme tells which verifier in the chain resolved the token.
	Scheme Scheme

	// Subject is the external identity the token was bound to.
	Subject string
}

// Verifier resolves a presented token to an identity at a given instant.
type Verifier interface {
	VerifyToken(presented string, now time.Time) (Identity, error)
}

// RotatingVerifier adapts PassService to the Verifier interface.
type RotatingVerifier struct {
	Pass *PassService
}

// VerifyToken implements Verifier.
func (v *RotatingVerifier) VerifyToken(presented string, now time.Time) (Identity, error) {
	subject, err := v.Pass.Verify(presented, now)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Scheme: SchemeRotating, Subject: subject}, nil
}

// StaticVerifier adapts StaticService to the Verifier interface.
type StaticVerifier struct {
	Static *StaticService
}

// VerifyToken implements Verifier.
func (v *StaticVerifier) VerifyToken(presented string, _ time.Time) (Identity, error) {
	subject, err := v.Static.Verify(presented)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Scheme: SchemeStatic, Subject: subject}, nil
}

// VerifierChain tries an ordered list of verifiers and returns the first
// successful tagged identity. Fallback is data flow, not exception flow:
// each verifier returns a result, and only when every one has refused does
// the chain fail.
//
// Malformed-encoding and bad-signature failures collapse to the generic
// ErrPassInvalid here so the chain's caller cannot leak which scheme, or
// which window boundary, rejected the token.
type VerifierChain struct {
	verifiers []Verifier
}

// NewVerifierChain creates a chain from the given verifiers, tried in order.
func NewVerifierChain(verifiers ...Verifier) *VerifierChain {
	return &VerifierChain{verifiers: verifiers}
}

// VerifyToken implements Verifier.
func (c *VerifierChain) VerifyToken(presented string, now time.Time) (Identity, error) {
	for _, v := range c.verifiers {
		id, err := v.VerifyToken(presented, now)
		if err == nil {
			return id, nil
		}
		if !isTokenRefusal(err) {
			return Identity{}, err
		}
	}
	return Identity{}, domain.ErrPassInvalid
}

// isTokenRefusal reports whether the error means "this verifier refuses
// the token", which lets the chain move on to the next scheme.
func isTokenRefusal(err error) bool {
	return errors.Is(err, domain.ErrPassMalformed) ||
		errors.Is(err, domain.ErrPassInvalid) ||
		errors.Is(err, domain.ErrStaticTokenInvalid)
}
