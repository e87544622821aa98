// Package domain defines the core domain models for the gate service.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Scan record constants.
const (
	// ScanIDPrefix is the prefix for scan ledger record ids.
	ScanIDPrefix = "egsc-"
)

// ScanKind is the decided action of an accepted scan.
type ScanKind string

const (
	// ScanEntry is a scan accepted while the attendee was OUTSIDE.
	ScanEntry ScanKind = "ENTRY"

	// ScanExit is a scan accepted while the attendee was INSIDE.
	ScanExit ScanKind = "EXIT"
)

// IsValidScanKind checks if a string is a valid scan kind.
func IsValidScanKind(s string) bool {
	switch ScanKind(s) {
	case ScanEntry, ScanExit:
		return true
	}
	return false
}

// ScanRecord is one immutable entry of the scan ledger. Created exactly
// once per accepted scan; never mutated or deleted.
type ScanRecord struct {
	// ID is the record identifier. Format: egsc-{ulid_lowercase}.
	ID string `json:"id"`

	// AttendeeID is the surrogate id of the scanned attendee.
	AttendeeID string `json:"attendee_id"`

	// OperatorID identifies who performed the scan.
	OperatorID string `json:"operator_id"`

	// Kind is ENTRY or EXIT.
	Kind ScanKind `json:"kind"`

	// Sequence is the attendee's scan_count at the time of this record.
	Sequence uint64 `json:"sequence"`

	// DurationMinutes is the dwell duration in whole minutes. Meaningful
	// only when Kind is EXIT; zero both for ENTRY records and for an EXIT
	// with no recorded entry time.
	DurationMinutes int64 `json:"duration_minutes"`

	// Timestamp is when the scan was accepted (Unix milliseconds).
	Timestamp int64 `json:"timestamp"`
}

// NewScanRecord creates a ledger record for an accepted scan.
func NewScanRecord(attendeeID, operatorID string, kind ScanKind, sequence uint64, durationMinutes int64, at time.Time) (*ScanRecord, error) {
	id, err := GenerateScanID()
	if err != nil {
		return nil, err
	}

	return &ScanRecord{
		ID:              id,
		AttendeeID:      attendeeID,
		OperatorID:      operatorID,
		Kind:            kind,
		Sequence:        sequence,
		DurationMinutes: durationMinutes,
		Timestamp:       at.UnixMilli(),
	}, nil
}

// GenerateScanID generates a new scan record id using ULID.
func GenerateScanID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ScanIDPrefix + strings.ToLower(id.String()), nil
}

// Validate validates the record fields.
func (r *ScanRecord) Validate() error {
	var violations []string

	if r.AttendeeID == "" {
		violations = append(violations, "attendee_id is required")
	}
	if r.OperatorID == "" {
		violations = append(violations, "operator_id is required")
	}
	if !IsValidScanKind(string(r.Kind)) {
		violations = append(violations, "kind must be ENTRY or EXIT")
	}
	if r.Sequence == 0 {
		violations = append(violations, "sequence starts at 1")
	}
	if r.DurationMinutes < 0 {
		violations = append(violations, "duration_minutes must be non-negative")
	}

	if len(violations) > 0 {
		return ErrBadRequest.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a copy of the record.
func (r *ScanRecord) Clone() *ScanRecord {
	clone := *r
	return &clone
}
