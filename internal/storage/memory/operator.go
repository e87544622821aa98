package memory

import (
	"context"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/pkg/cmap"
)

// OperatorMirror persists operator records to a durable keyed store.
type OperatorMirror interface {
	SaveOperator(ctx context.Context, operator *domain.Operator) error
}

// OperatorStore is the in-memory operator directory.
type OperatorStore struct {
	operators *cmap.Map[*domain.Operator]
	mirror    OperatorMirror
}

// NewOperatorStore creates a new operator directory.
func NewOperatorStore(mirror OperatorMirror) *OperatorStore {
	return &OperatorStore{
		operators: cmap.New[*domain.Operator](),
		mirror:    mirror,
	}
}

// Put stores or replaces an operator record.
func (s *OperatorStore) Put(ctx context.Context, operator *domain.Operator) error {
	if err := operator.Validate(); err != nil {
		return err
	}

	clone := operator.Clone()
	if s.mirror != nil {
		if err := s.mirror.SaveOperator(ctx, clone); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
	}
	s.operators.Set(operator.ID, clone)
	return nil
}

// Get resolves an operator by id.
func (s *OperatorStore) Get(_ context.Context, operatorID string) (*domain.Operator, error) {
	op, ok := s.operators.Get(operatorID)
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}
	return op.Clone(), nil
}

// Authenticate checks an operator's device secret. Disabled operators fail
// with ErrOperatorForbidden even when the secret is correct.
func (s *OperatorStore) Authenticate(ctx context.Context, operatorID, secret string) (*domain.Operator, error) {
	op, err := s.Get(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !domain.VerifyDeviceSecret(secret, op.SecretHash) {
		return nil, domain.ErrOperatorSecretInvalid
	}
	if !op.IsActive() {
		return nil, domain.ErrOperatorForbidden.WithDetails("operator " + op.ID)
	}
	return op, nil
}

// IncrScanTotal bumps the operator's lifetime scan counter atomically.
func (s *OperatorStore) IncrScanTotal(ctx context.Context, operatorID string) error {
	_, err := s.operators.Update(operatorID, func(current *domain.Operator, exists bool) (*domain.Operator, error) {
		if !exists {
			return nil, domain.ErrOperatorNotFound
		}

		next := current.Clone()
		next.ScanTotal++
		next.IncrVersion()

		if s.mirror != nil {
			if err := s.mirror.SaveOperator(ctx, next); err != nil {
				return nil, domain.ErrStorageError.WithCause(err)
			}
		}
		return next, nil
	})
	return err
}

// SetStatus enables or disables an operator.
func (s *OperatorStore) SetStatus(ctx context.Context, operatorID string, status domain.OperatorStatus) error {
	_, err := s.operators.Update(operatorID, func(current *domain.Operator, exists bool) (*domain.Operator, error) {
		if !exists {
			return nil, domain.ErrOperatorNotFound
		}

		next := current.Clone()
		next.Status = status
		next.IncrVersion()

		if s.mirror != nil {
			if err := s.mirror.SaveOperator(ctx, next); err != nil {
				return nil, domain.ErrStorageError.WithCause(err)
			}
		}
		return next, nil
	})
	return err
}

// All returns clones of all operators.
func (s *OperatorStore) All() []*domain.Operator {
	out := make([]*domain.Operator, 0, s.operators.Count())
	s.operators.Range(func(_ string, op *domain.Operator) bool {
		out = append(out, op.Clone())
		return true
	})
	return out
}

// Load rebuilds the directory from persisted operators.
func (s *OperatorStore) Load(operators []*domain.Operator) {
	s.operators.Clear()
	for _, op := range operators {
		s.operators.Set(op.ID, op.Clone())
	}
}
