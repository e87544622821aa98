// Package service provides the domain services of the gate core.
package service

import (
	"context"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
)

// ToggleResult is the outcome of one atomic presence toggle.
type ToggleResult struct {
	// Previous is the state observed before the flip.
	Previous domain.LocationState

	// Next is the state after the flip.
	Next domain.LocationState

	// PreviousEntryAt is the last_entry_at value observed before the
	// flip (Unix milliseconds, zero if never set). For an EXIT this is
	// the entry the dwell duration is computed from.
	PreviousEntryAt int64

	// ScanCount is the attendee's scan count after the flip.
	ScanCount uint64

	// InsideMinutes is the accumulated inside time after the flip.
	InsideMinutes uint64
}

// PresenceStore is the sole owner of attendee presence state.
//
// ToggleAndRecord must execute as one atomic unit against concurrent
// callers for the same attendee: read the state, flip it, stamp the
// matching timestamp, bump the counters, persist. Two scanning stations
// presenting valid tokens for the same attendee within milliseconds must
// not both observe ENTRY.
type PresenceStore interface {
	ToggleAndRecord(ctx context.Context, attendeeID string, now time.Time) (*ToggleResult, error)
}

// AttendeeRepository resolves attendee records.
type AttendeeRepository interface {
	// GetByExternalID resolves an attendee by the identity carried in
	// pass tokens. Returns domain.ErrAttendeeNotFound if absent.
	GetByExternalID(ctx context.Context, externalID string) (*domain.Attendee, error)

	// GetByID resolves an attendee by surrogate id.
	GetByID(ctx context.Context, id string) (*domain.Attendee, error)
}

// ScanLedger is the append-only record of accepted scans.
type ScanLedger interface {
	Append(ctx context.Context, record *domain.ScanRecord) error
}

// OperatorDirectory resolves scanning operators and tracks their lifetime
// scan counters.
type OperatorDirectory interface {
	// Get resolves an operator. Returns domain.ErrOperatorNotFound if absent.
	Get(ctx context.Context, operatorID string) (*domain.Operator, error)

	// IncrScanTotal bumps the operator's lifetime scan counter.
	IncrScanTotal(ctx context.Context, operatorID string) error
}

// ScanService is the protocol entry point: it verifies a presented token,
// resolves the attendee, toggles presence, writes the ledger, and reports
// the decided action.
type ScanService struct {
	verifier  Verifier
	attendees AttendeeRepository
	presence  PresenceStore
	ledger    ScanLedger
	operators OperatorDirectory
	pass      *PassService
	log       logger.Logger
}

// NewScanService creates a ScanService.
func NewScanService(verifier Verifier, attendees AttendeeRepository, presence PresenceStore, ledger ScanLedger, operators OperatorDirectory, pass *PassService, log logger.Logger) *ScanService {
	if log == nil {
		log = logger.Default()
	}
	return &ScanService{
		verifier:  verifier,
		attendees: attendees,
		presence:  presence,
		ledger:    ledger,
		operators: operators,
		pass:      pass,
		log:       log,
	}
}

// ScanRequest carries one presented token from a scanning station.
type ScanRequest struct {
	// Token is the presented pass token (rotating or legacy static).
	Token string

	// OperatorID identifies the authenticated scanning operator.
	OperatorID string

	// Now is the scan instant. Zero means time.Now().
	Now time.Time
}

// ScanResult is the structured outcome of an accepted scan.
type ScanResult struct {
	AttendeeID string          `json:"attendee_id"`
	ExternalID string          `json:"external_id"`
	FullName   string          `json:"full_name"`
	Action     domain.ScanKind `json:"action"`

	// DurationMinutes is set only for EXIT.
	DurationMinutes *int64 `json:"duration_minutes,omitempty"`

	ScanCount uint64 `json:"scan_count"`

	// Warnings reports post-toggle failures (ledger append, operator
	// counter). The presence flip stands regardless: the attendee has in
	// fact crossed the gate.
	Warnings []string `json:"warnings,omitempty"`
}

// Scan processes one presented token.
//
// Steps up to and including the presence toggle are fail-fast with no side
// effects. Once the toggle has been applied it is never rolled back;
// failures in the ledger append or the operator counter are logged and
// surfaced as warnings on an otherwise successful result.
func (s *ScanService) Scan(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	// 1. Verify the token: rotating first, legacy static as fallback.
	identity, err := s.verifier.VerifyToken(req.Token, now)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the attendee record.
	attendee, err := s.attendees.GetByExternalID(ctx, identity.Subject)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrAttendeeNotFound.Code) {
			// A validly signed token for an unknown identity means the
			// attendee roster and the token secret are out of sync.
			s.log.Error("verified token resolves to no attendee",
				"subject", identity.Subject,
				"scheme", string(identity.Scheme))
		}
		return nil, err
	}

	// 3. Confirm the operator may scan.
	operator, err := s.operators.Get(ctx, req.OperatorID)
	if err != nil {
		return nil, err
	}
	if !operator.IsActive() {
		return nil, domain.ErrOperatorForbidden.WithDetails("operator " + operator.ID)
	}

	// 4. Atomic toggle. From here on the flip is authoritative.
	toggle, err := s.presence.ToggleAndRecord(ctx, attendee.ID, now)
	if err != nil {
		return nil, err
	}

	action := domain.ScanExit
	if toggle.Previous == domain.Outside {
		action = domain.ScanEntry
	}

	// 5. Dwell duration for EXIT, clamped to zero. A missing entry time is
	// a data inconsistency, not a reason to fail the scan.
	var durationMinutes int64
	if action == domain.ScanExit {
		if toggle.PreviousEntryAt == 0 {
			s.log.Warn("exit with no recorded entry time",
				"attendee_id", attendee.ID,
				"code", domain.ErrPresenceInconsistent.Code)
		} else {
			durationMinutes = (now.UnixMilli() - toggle.PreviousEntryAt) / time.Minute.Milliseconds()
			if durationMinutes < 0 {
				durationMinutes = 0
			}
		}
	}

	result := &ScanResult{
		AttendeeID: attendee.ID,
		ExternalID: attendee.ExternalID,
		FullName:   attendee.FullName,
		Action:     action,
		ScanCount:  toggle.ScanCount,
	}
	if action == domain.ScanExit {
		d := durationMinutes
		result.DurationMinutes = &d
	}

	// 6. Append the ledger record.
	record, err := domain.NewScanRecord(attendee.ID, operator.ID, action, toggle.ScanCount, durationMinutes, now)
	if err == nil {
		err = s.ledger.Append(ctx, record)
	}
	if err != nil {
		s.log.Error("scan ledger append failed after toggle",
			"attendee_id", attendee.ID,
			"operator_id", operator.ID,
			"error", err)
		result.Warnings = append(result.Warnings, domain.ErrLedgerAppend.Error())
	}

	// 7. Operator lifetime counter, best-effort.
	if err := s.operators.IncrScanTotal(ctx, operator.ID); err != nil {
		s.log.Warn("operator scan counter increment failed",
			"operator_id", operator.ID,
			"error", err)
		result.Warnings = append(result.Warnings, "operator counter not updated")
	}

	// 8. Done.
	return result, nil
}

// DisplayPass is a rotating token plus the metadata a display client needs
// to pre-fetch the next code before expiry.
type DisplayPass struct {
	Token    string       `json:"token"`
	Rotation RotationInfo `json:"rotation"`
}

// IssueDisplayPass returns the current display token for an attendee.
func (s *ScanService) IssueDisplayPass(ctx context.Context, attendeeID string, now time.Time) (*DisplayPass, error) {
	if now.IsZero() {
		now = time.Now()
	}

	attendee, err := s.attendees.GetByID(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	return &DisplayPass{
		Token:    s.pass.Issue(attendee.ExternalID, now),
		Rotation: s.pass.Rotation(now),
	}, nil
}
