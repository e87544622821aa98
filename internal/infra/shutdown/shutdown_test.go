package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.done == nil {
		t.Error("done channel should be initialized")
	}
}

func TestHooksRunInReverseOrder(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var order []string

	record := func(name string) func(context.Context) error {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	h.OnShutdown("http", record("http"))
	h.OnShutdown("storage", record("storage"))
	h.OnShutdown("ledger", record("ledger"))

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	time.Sleep(20 * time.Millisecond)
	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"ledger", "storage", "http"}
	if len(order) != len(want) {
		t.Fatalf("hooks run = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("hooks run = %v, want %v", order, want)
			break
		}
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestAllHooksRunDespiteFailure(t *testing.T) {
	h := NewHandler(5 * time.Second)

	storageErr := errors.New("badger close failed")
	var httpRan bool

	h.OnShutdown("http", func(ctx context.Context) error {
		httpRan = true
		return nil
	})
	h.OnShutdown("storage", func(ctx context.Context) error {
		return storageErr
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	time.Sleep(20 * time.Millisecond)
	h.Trigger()

	select {
	case err := <-errCh:
		if !errors.Is(err, storageErr) {
			t.Errorf("Wait() = %v, want wrapped %v", err, storageErr)
		}
		var hookErr *HookError
		if !errors.As(err, &hookErr) {
			t.Fatal("expected a *HookError in the chain")
		}
		if hookErr.Name != "storage" {
			t.Errorf("failed hook = %q, want %q", hookErr.Name, "storage")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	if !httpRan {
		t.Error("http hook should run even after storage hook fails")
	}
}

func TestTriggerIsIdempotent(t *testing.T) {
	h := NewHandler(time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	time.Sleep(20 * time.Millisecond)
	h.Trigger()
	h.Trigger()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}
}

func TestConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var wg sync.WaitGroup
	const n = 10
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("noop", func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	if len(h.hooks) != n {
		t.Errorf("expected %d hooks, got %d", n, len(h.hooks))
	}
	h.mu.Unlock()
}
