// Package command provides CLI command definitions for gate-admin.
//
// Commands are grouped by resource:
//
//   - attendee: provision, list, get, pass
//   - operator: create, list, enable, disable
//   - asset: token
//   - ledger: dump (offline segment inspection)
//   - system: health, version
//
// Networked commands talk to the gate service's HTTP API with admin
// operator credentials; ledger commands read segment files directly.
package command
