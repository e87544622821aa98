// Package domain defines the core domain models for the gate service.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "EG-ATTN-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Pass Token Errors (PASS)
// ============================================================================

var (
	// ErrPassMalformed indicates the presented token does not parse.
	ErrPassMalformed = NewDomainError("EG-PASS-4000", "malformed pass token")

	// ErrPassInvalid indicates no signature matched within the accepted
	// window range. Deliberately indistinguishable from expiry: the two
	// cases must surface identically so window boundaries do not leak.
	ErrPassInvalid = NewDomainError("EG-PASS-4010", "invalid or expired pass token")

	// ErrStaticTokenInvalid indicates a static asset token failed its
	// signature check.
	ErrStaticTokenInvalid = NewDomainError("EG-PASS-4011", "invalid asset token")
)

// ============================================================================
// Attendee Errors (ATTN)
// ============================================================================

var (
	// ErrAttendeeNotFound indicates no attendee matches the verified identity.
	// Distinct from token failures: a valid signature over an unknown identity
	// points at a data-sync problem worth logging loudly.
	ErrAttendeeNotFound = NewDomainError("EG-ATTN-4040", "attendee not found")

	// ErrAttendeeConflict indicates the attendee id or external id is taken.
	ErrAttendeeConflict = NewDomainError("EG-ATTN-4090", "attendee already exists")

	// ErrAttendeeValidation indicates attendee data validation failed.
	ErrAttendeeValidation = NewDomainError("EG-ATTN-4001", "attendee validation failed")

	// ErrPresenceInconsistent indicates an EXIT was observed for an attendee
	// with no recorded entry time. Logged, not fatal; dwell duration
	// defaults to zero.
	ErrPresenceInconsistent = NewDomainError("EG-ATTN-4220", "presence record inconsistent")
)

// ============================================================================
// Operator Errors (OPER)
// ============================================================================

var (
	// ErrOperatorNotFound indicates the scanning operator does not exist.
	ErrOperatorNotFound = NewDomainError("EG-OPER-4040", "operator not found")

	// ErrOperatorForbidden indicates the operator is disabled or lacks the
	// capability to perform scans.
	ErrOperatorForbidden = NewDomainError("EG-OPER-4030", "operator not authorized")

	// ErrOperatorSecretInvalid indicates the presented device secret is wrong.
	ErrOperatorSecretInvalid = NewDomainError("EG-OPER-4011", "invalid device secret")

	// ErrOperatorConflict indicates the operator id already exists.
	ErrOperatorConflict = NewDomainError("EG-OPER-4090", "operator already exists")

	// ErrOperatorValidation indicates operator data validation failed.
	ErrOperatorValidation = NewDomainError("EG-OPER-4001", "operator validation failed")
)

// ============================================================================
// Scan Errors (SCAN)
// ============================================================================

var (
	// ErrLedgerAppend indicates the scan ledger write failed after the
	// presence toggle was applied. The toggle is not rolled back; callers
	// surface this as a partial success.
	ErrLedgerAppend = NewDomainError("EG-SCAN-5001", "scan ledger append failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("EG-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("EG-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("EG-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("EG-SYS-4290", "too many requests")
)
