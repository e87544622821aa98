// Package shutdown provides graceful shutdown for the gate service.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// hook is a named teardown step.
type hook struct {
	name string
	fn   func(context.Context) error
}

// Handler runs registered teardown hooks when the process receives
// SIGINT or SIGTERM, or when Trigger is called. Hooks run in reverse
// registration order, so the HTTP listener registered first is drained
// before the storage engine it depends on is closed.
type Handler struct {
	timeout time.Duration

	mu    sync.Mutex
	hooks []hook

	trigger chan struct{}
	once    sync.Once
	done    chan struct{}
}

// NewHandler creates a shutdown handler. The timeout bounds the total
// time all hooks may take together.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a named teardown step.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{name: name, fn: fn})
}

// Trigger starts shutdown without an OS signal. Safe to call more
// than once.
func (h *Handler) Trigger() {
	h.once.Do(func() { close(h.trigger) })
}

// Wait blocks until a shutdown signal arrives, then runs the hooks in
// reverse registration order. Every hook runs even if an earlier one
// fails; the errors are joined and returned together.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-h.trigger:
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			errs = append(errs, &HookError{Name: hooks[i].name, Err: err})
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel that closes once all hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// HookError reports which teardown step failed.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return "shutdown hook " + e.Name + ": " + e.Err.Error()
}

func (e *HookError) Unwrap() error {
	return e.Err
}
