package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

func mustOperator(t *testing.T, name string, role domain.Role) (*domain.Operator, string) {
	t.Helper()
	op, secret, err := domain.NewOperator(name, role)
	if err != nil {
		t.Fatalf("NewOperator: %v", err)
	}
	return op, secret
}

func TestOperatorPutGet(t *testing.T) {
	s := NewOperatorStore(nil)
	ctx := context.Background()

	op, _ := mustOperator(t, "Gate A Scanner", domain.RoleOperator)
	if err := s.Put(ctx, op); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, op.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Gate A Scanner" {
		t.Errorf("Name = %q, want Gate A Scanner", got.Name)
	}
	if got.Status != domain.OperatorActive {
		t.Errorf("Status = %v, want active", got.Status)
	}

	if _, err := s.Get(ctx, "egop-missing"); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("Get missing = %v, want ErrOperatorNotFound", err)
	}
}

func TestOperatorAuthenticate(t *testing.T) {
	s := NewOperatorStore(nil)
	ctx := context.Background()

	op, secret := mustOperator(t, "Gate A Scanner", domain.RoleOperator)
	if err := s.Put(ctx, op); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Authenticate(ctx, op.ID, secret)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != op.ID {
		t.Errorf("authenticated id = %q, want %q", got.ID, op.ID)
	}

	if _, err := s.Authenticate(ctx, op.ID, "egds_wrong"); !errors.Is(err, domain.ErrOperatorSecretInvalid) {
		t.Errorf("wrong secret error = %v, want ErrOperatorSecretInvalid", err)
	}
	if _, err := s.Authenticate(ctx, "egop-missing", secret); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("unknown operator error = %v, want ErrOperatorNotFound", err)
	}
}

func TestOperatorDisabledCannotAuthenticate(t *testing.T) {
	s := NewOperatorStore(nil)
	ctx := context.Background()

	op, secret := mustOperator(t, "Gate A Scanner", domain.RoleOperator)
	if err := s.Put(ctx, op); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.SetStatus(ctx, op.ID, domain.OperatorDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	if _, err := s.Authenticate(ctx, op.ID, secret); !errors.Is(err, domain.ErrOperatorForbidden) {
		t.Errorf("disabled operator error = %v, want ErrOperatorForbidden", err)
	}
}

func TestOperatorAttendeeRoleCannotAuthenticate(t *testing.T) {
	s := NewOperatorStore(nil)
	ctx := context.Background()

	op, secret := mustOperator(t, "Self Service", domain.RoleAttendee)
	if err := s.Put(ctx, op); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, err := s.Authenticate(ctx, op.ID, secret); !errors.Is(err, domain.ErrOperatorForbidden) {
		t.Errorf("attendee-role error = %v, want ErrOperatorForbidden", err)
	}
}

func TestOperatorIncrScanTotal(t *testing.T) {
	s := NewOperatorStore(nil)
	ctx := context.Background()

	op, _ := mustOperator(t, "Gate A Scanner", domain.RoleOperator)
	if err := s.Put(ctx, op); err != nil {
		t.Fatalf("Put: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.IncrScanTotal(ctx, op.ID); err != nil {
				t.Errorf("IncrScanTotal: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, op.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ScanTotal != n {
		t.Errorf("ScanTotal = %d, want %d", got.ScanTotal, n)
	}

	if err := s.IncrScanTotal(ctx, "egop-missing"); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("IncrScanTotal missing = %v, want ErrOperatorNotFound", err)
	}
}

func TestOperatorLoad(t *testing.T) {
	ctx := context.Background()

	op1, _ := mustOperator(t, "Gate A Scanner", domain.RoleOperator)
	op2, _ := mustOperator(t, "Event Admin", domain.RoleAdmin)

	fresh := NewOperatorStore(nil)
	fresh.Load([]*domain.Operator{op1, op2})

	got, err := fresh.Get(ctx, op2.ID)
	if err != nil {
		t.Fatalf("Get after Load: %v", err)
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role = %v, want admin", got.Role)
	}
	if len(fresh.All()) != 2 {
		t.Errorf("All = %d operators, want 2", len(fresh.All()))
	}
}
