// Package main provides the entry point for eventgate-server.
//
// The server is the core gate service that provides:
//
//   - HTTP/HTTPS API for gate scans and pass issuance
//   - Admin API for attendee, operator and asset provisioning
//   - Prometheus metrics exposition
//   - Durable presence state with an append-only scan ledger
//
// Usage:
//
//	eventgate-server [flags]
//	eventgate-server --config /path/to/config.yaml
//
// The server loads configuration, recovers presence state from the durable
// mirror, and starts the HTTP listener.
package main
