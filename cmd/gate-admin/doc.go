// Package main provides the entry point for gate-admin.
//
// The CLI tool provides command-line access to the gate service for:
//
//   - Attendee provisioning and presence inspection
//   - Operator management (create, enable, disable)
//   - Asset token issuance
//   - Offline scan ledger inspection
//
// Usage:
//
//	gate-admin [command] [flags]
//	gate-admin attendee list --output json
//	gate-admin ledger dump --dir /var/lib/eventgate-server/data/ledger
//
// Networked commands authenticate with admin operator credentials from
// the --operator-id/--device-secret flags or the EVENTGATE_OPERATOR_ID
// and EVENTGATE_DEVICE_SECRET environment variables.
package main
