// Package domain defines the core domain models for the gate service.
package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"
)

// Operator constants.
const (
	// OperatorIDPrefix is the prefix for operator ids (public, uses hyphen).
	OperatorIDPrefix = "egop-"

	// DeviceSecretPrefix is the prefix for device secrets (sensitive,
	// uses underscore).
	DeviceSecretPrefix = "egds_"

	// DeviceSecretBytes is the number of random bytes in a device secret.
	DeviceSecretBytes = 32

	MaxOperatorNameLength = 128
)

// Argon2id parameters for device secret hashing.
const (
	Argon2Memory      uint32 = 16384 // KB (16 MB)
	Argon2Time        uint32 = 2
	Argon2Parallelism uint8  = 2
	Argon2KeyLen      uint32 = 32
	Argon2SaltLen            = 16
)

// Role is the capability tag of a principal. Each variant exposes only the
// operations the gate core needs from it: an attendee can request their own
// display pass, an operator can perform scans, an admin can additionally
// provision operators and assets.
type Role string

const (
	RoleAttendee Role = "attendee"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// ValidRoles returns all valid roles.
func ValidRoles() []Role {
	return []Role{RoleAttendee, RoleOperator, RoleAdmin}
}

// IsValidRole checks if a string is a valid role.
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAttendee, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// CanScan reports whether the role may perform gate scans.
func (r Role) CanScan() bool {
	return r == RoleOperator || r == RoleAdmin
}

// OperatorStatus defines the status of a scanning operator.
type OperatorStatus string

const (
	// OperatorActive indicates the operator may perform scans.
	OperatorActive OperatorStatus = "active"

	// OperatorDisabled indicates the operator has been disabled.
	OperatorDisabled OperatorStatus = "disabled"
)

// Operator represents a scanning-station operator.
//
// The plaintext device secret is shown once at provisioning time; only the
// Argon2id hash is stored.
type Operator struct {
	// ID is the operator identifier. Format: egop-{ulid_lowercase}.
	ID string `json:"id"`

	// Name is the operator's display name.
	Name string `json:"name"`

	// SecretHash is the encoded Argon2id hash of the device secret.
	SecretHash string `json:"secret_hash"`

	// Role is the capability tag (operator or admin).
	Role Role `json:"role"`

	// Status is active or disabled.
	Status OperatorStatus `json:"status"`

	// ScanTotal is the operator's lifetime count of accepted scans.
	// Updated best-effort after each scan; not part of the presence
	// state machine.
	ScanTotal uint64 `json:"scan_total"`

	// CreatedAt is the provisioning timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// Version is the optimistic lock version number.
	Version uint64 `json:"version"`
}

// NewOperator creates a new active Operator and returns it together with
// the plaintext device secret.
func NewOperator(name string, role Role) (*Operator, string, error) {
	id, err := GenerateOperatorID()
	if err != nil {
		return nil, "", err
	}

	secret, err := GenerateDeviceSecret()
	if err != nil {
		return nil, "", err
	}

	hash, err := HashDeviceSecret(secret)
	if err != nil {
		return nil, "", err
	}

	return &Operator{
		ID:         id,
		Name:       name,
		SecretHash: hash,
		Role:       role,
		Status:     OperatorActive,
		CreatedAt:  time.Now().UnixMilli(),
		Version:    1,
	}, secret, nil
}

// GenerateOperatorID generates a new operator id using ULID.
func GenerateOperatorID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return OperatorIDPrefix + strings.ToLower(id.String()), nil
}

// GenerateDeviceSecret generates a random device secret.
// Format: egds_{base64_rawurl}, shown to the operator exactly once.
func GenerateDeviceSecret() (string, error) {
	raw := make([]byte, DeviceSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return DeviceSecretPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashDeviceSecret hashes a device secret with Argon2id.
// Encoded format: argon2id$v=19$m=16384,t=2,p=2${salt_b64}${hash_b64}
func HashDeviceSecret(secret string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrInternalServer.WithCause(err)
	}

	key := argon2.IDKey([]byte(secret), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)

	return fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyDeviceSecret checks a plaintext device secret against an encoded
// Argon2id hash using constant-time comparison.
func VerifyDeviceSecret(secret, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// IsActive reports whether the operator may currently perform scans.
func (o *Operator) IsActive() bool {
	return o.Status == OperatorActive && o.Role.CanScan()
}

// Validate validates the operator fields against constraints.
func (o *Operator) Validate() error {
	var violations []string

	if o.Name == "" {
		violations = append(violations, "name is required")
	}
	if len(o.Name) > MaxOperatorNameLength {
		violations = append(violations, "name exceeds 128 characters")
	}
	if !o.Role.CanScan() && o.Role != RoleAttendee {
		violations = append(violations, "role must be a valid capability tag")
	}

	if len(violations) > 0 {
		return ErrOperatorValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// IncrVersion increments the version number for optimistic locking.
func (o *Operator) IncrVersion() {
	o.Version++
}

// Clone creates a copy of the operator.
func (o *Operator) Clone() *Operator {
	clone := *o
	return &clone
}
