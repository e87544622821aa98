package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/service"
	"github.com/Abhinandan-Sah/sgtu-event-v3/pkg/cmap"
)

// Mirror persists attendee state to a durable keyed store. It is called
// inside the toggle's critical section so the durable write shares the
// per-attendee serialization; implementations must be bounded and
// non-suspending.
type Mirror interface {
	SaveAttendee(ctx context.Context, attendee *domain.Attendee) error
}

// Store is the in-memory presence store with an external-id index.
type Store struct {
	// Primary index: attendee ID -> Attendee
	attendees *cmap.Map[*domain.Attendee]

	// Secondary index: ExternalID -> attendee ID
	external *cmap.Map[string]

	// Optional durable mirror, written inside the toggle.
	mirror Mirror

	// Guards provisioning, which touches both indexes.
	mu sync.Mutex
}

// Option configures the Store.
type Option func(*Store)

// WithMirror attaches a durable mirror to the store.
func WithMirror(m Mirror) Option {
	return func(s *Store) {
		s.mirror = m
	}
}

// New creates a new in-memory presence store.
func New(opts ...Option) *Store {
	s := &Store{
		attendees: cmap.New[*domain.Attendee](),
		external:  cmap.New[string](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provision stores a newly created attendee.
func (s *Store) Provision(ctx context.Context, attendee *domain.Attendee) error {
	if err := attendee.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attendees.Has(attendee.ID) || s.external.Has(attendee.ExternalID) {
		return domain.ErrAttendeeConflict
	}

	clone := attendee.Clone()
	if s.mirror != nil {
		if err := s.mirror.SaveAttendee(ctx, clone); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
	}

	s.attendees.Set(attendee.ID, clone)
	s.external.Set(attendee.ExternalID, attendee.ID)
	return nil
}

// GetByID retrieves an attendee by surrogate id.
func (s *Store) GetByID(_ context.Context, id string) (*domain.Attendee, error) {
	attendee, ok := s.attendees.Get(id)
	if !ok {
		return nil, domain.ErrAttendeeNotFound
	}
	return attendee.Clone(), nil
}

// GetByExternalID retrieves an attendee by external identity.
func (s *Store) GetByExternalID(_ context.Context, externalID string) (*domain.Attendee, error) {
	id, ok := s.external.Get(externalID)
	if !ok {
		return nil, domain.ErrAttendeeNotFound
	}

	attendee, ok := s.attendees.Get(id)
	if !ok {
		// Index inconsistency; drop the orphaned mapping.
		s.external.Delete(externalID)
		return nil, domain.ErrAttendeeNotFound
	}
	return attendee.Clone(), nil
}

// ToggleAndRecord atomically flips the attendee's presence state.
//
// The read, the flip, the timestamp update, the counter increments, and the
// mirror write all happen under the attendee's shard lock: the next caller
// for the same attendee observes this call's completed state and nothing in
// between. OUTSIDE->INSIDE stamps last_entry_at; INSIDE->OUTSIDE stamps
// last_exit_at, leaves last_entry_at untouched for duration computation,
// and folds the completed dwell into inside_minutes.
func (s *Store) ToggleAndRecord(ctx context.Context, attendeeID string, now time.Time) (*service.ToggleResult, error) {
	var result *service.ToggleResult

	_, err := s.attendees.Update(attendeeID, func(current *domain.Attendee, exists bool) (*domain.Attendee, error) {
		if !exists {
			return nil, domain.ErrAttendeeNotFound
		}

		next := current.Clone()
		previous := next.LocationState
		previousEntryAt := next.LastEntryAt
		nowMilli := now.UnixMilli()

		if previous == domain.Outside {
			next.LocationState = domain.Inside
			next.LastEntryAt = nowMilli
		} else {
			next.LocationState = domain.Outside
			next.LastExitAt = nowMilli
			if previousEntryAt > 0 {
				minutes := (nowMilli - previousEntryAt) / time.Minute.Milliseconds()
				if minutes > 0 {
					next.InsideMinutes += uint64(minutes)
				}
			}
		}

		next.ScanCount++
		next.IncrVersion()

		if s.mirror != nil {
			if err := s.mirror.SaveAttendee(ctx, next); err != nil {
				return nil, domain.ErrStorageError.WithCause(err)
			}
		}

		result = &service.ToggleResult{
			Previous:        previous,
			Next:            next.LocationState,
			PreviousEntryAt: previousEntryAt,
			ScanCount:       next.ScanCount,
			InsideMinutes:   next.InsideMinutes,
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of provisioned attendees.
func (s *Store) Count() int {
	return s.attendees.Count()
}

// CountInside returns the number of attendees currently INSIDE.
func (s *Store) CountInside() int {
	n := 0
	s.attendees.Range(func(_ string, a *domain.Attendee) bool {
		if a.LocationState == domain.Inside {
			n++
		}
		return true
	})
	return n
}

// All returns clones of all attendees. Used for snapshots and audits.
func (s *Store) All() []*domain.Attendee {
	out := make([]*domain.Attendee, 0, s.attendees.Count())
	s.attendees.Range(func(_ string, a *domain.Attendee) bool {
		out = append(out, a.Clone())
		return true
	})
	return out
}

// Load rebuilds the store from persisted attendees, replacing existing
// data and both indexes. Used during startup recovery.
func (s *Store) Load(attendees []*domain.Attendee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attendees.Clear()
	s.external.Clear()

	for _, a := range attendees {
		clone := a.Clone()
		s.attendees.Set(a.ID, clone)
		s.external.Set(a.ExternalID, a.ID)
	}
}
