// Package domain defines the core domain models for the gate service:
// attendees and their presence state, scanning operators, rotating and
// static pass tokens, and scan ledger records.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling.
package domain
