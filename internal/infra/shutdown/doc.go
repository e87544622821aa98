// Package shutdown provides graceful shutdown for the gate service.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Named teardown hooks, run in reverse registration order
//   - Programmatic shutdown via Trigger
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown("http", server.Shutdown)
//	err := h.Wait() // blocks until a signal arrives, then runs hooks
package shutdown
