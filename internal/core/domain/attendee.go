// Package domain defines the core domain models for the gate service.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Attendee constraints.
const (
	MaxExternalIDLength = 64
	MaxFullNameLength   = 128

	// AttendeeIDPrefix is the prefix for attendee surrogate ids.
	AttendeeIDPrefix = "egat-"
)

// LocationState is the presence state of an attendee. There is no third
// state: the value fully determines whether the next accepted scan is an
// ENTRY or an EXIT.
type LocationState string

const (
	// Outside is the initial state of every attendee.
	Outside LocationState = "OUTSIDE"

	// Inside means the attendee's last accepted scan was an ENTRY.
	Inside LocationState = "INSIDE"
)

// IsValidLocationState checks if a string is a valid location state.
func IsValidLocationState(s string) bool {
	switch LocationState(s) {
	case Outside, Inside:
		return true
	}
	return false
}

// Attendee represents a registered event attendee and their presence state.
//
// The presence fields (LocationState, LastEntryAt, LastExitAt, ScanCount,
// InsideMinutes) are owned exclusively by the presence store and are mutated
// only through its atomic toggle. Timestamps use Unix milliseconds; zero
// means "never".
type Attendee struct {
	// ID is the surrogate identifier. Format: egat-{ulid_lowercase}.
	ID string `json:"id"`

	// ExternalID is the stable external identifier presented in pass
	// tokens (e.g., an enrollment number).
	ExternalID string `json:"external_id"`

	// FullName is the attendee's display name.
	FullName string `json:"full_name"`

	// LocationState is OUTSIDE or INSIDE.
	LocationState LocationState `json:"location_state"`

	// LastEntryAt is the timestamp of the last accepted ENTRY scan.
	LastEntryAt int64 `json:"last_entry_at"`

	// LastExitAt is the timestamp of the last accepted EXIT scan.
	LastExitAt int64 `json:"last_exit_at"`

	// ScanCount is the number of accepted scans. Monotonic.
	ScanCount uint64 `json:"scan_count"`

	// InsideMinutes is the accumulated whole minutes spent INSIDE.
	InsideMinutes uint64 `json:"inside_minutes"`

	// CreatedAt is the provisioning timestamp.
	CreatedAt int64 `json:"created_at"`

	// Version is the optimistic lock version number.
	Version uint64 `json:"version"`
}

// NewAttendee creates a provisioned Attendee in the initial OUTSIDE state.
func NewAttendee(externalID, fullName string) (*Attendee, error) {
	id, err := GenerateAttendeeID()
	if err != nil {
		return nil, err
	}

	return &Attendee{
		ID:            id,
		ExternalID:    externalID,
		FullName:      fullName,
		LocationState: Outside,
		CreatedAt:     time.Now().UnixMilli(),
		Version:       1,
	}, nil
}

// GenerateAttendeeID generates a new attendee surrogate id using ULID.
// Format: egat-{ulid_lowercase}, 31 characters total.
func GenerateAttendeeID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return AttendeeIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidAttendeeID checks if a string is a valid attendee id format.
func IsValidAttendeeID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, AttendeeIDPrefix) {
		return false
	}

	// egat- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}

	_, err := ulid.Parse(strings.ToUpper(id[len(AttendeeIDPrefix):]))
	return err == nil
}

// Validate validates the attendee fields against constraints.
func (a *Attendee) Validate() error {
	var violations []string

	if a.ExternalID == "" {
		violations = append(violations, "external_id is required")
	}
	if len(a.ExternalID) > MaxExternalIDLength {
		violations = append(violations, "external_id exceeds 64 characters")
	}
	if len(a.FullName) > MaxFullNameLength {
		violations = append(violations, "full_name exceeds 128 characters")
	}
	if a.LocationState != "" && !IsValidLocationState(string(a.LocationState)) {
		violations = append(violations, "location_state must be OUTSIDE or INSIDE")
	}

	if len(violations) > 0 {
		return ErrAttendeeValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// IncrVersion increments the version number for optimistic locking.
func (a *Attendee) IncrVersion() {
	a.Version++
}

// Clone creates a copy of the attendee.
func (a *Attendee) Clone() *Attendee {
	clone := *a
	return &clone
}

// LastEntryTime returns LastEntryAt as time.Time, zero if never entered.
func (a *Attendee) LastEntryTime() time.Time {
	if a.LastEntryAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(a.LastEntryAt)
}

// LastExitTime returns LastExitAt as time.Time, zero if never exited.
func (a *Attendee) LastExitTime() time.Time {
	if a.LastExitAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(a.LastExitAt)
}
