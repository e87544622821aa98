// Package storage assembles the gate service's persistence: a sharded
// in-memory presence store (authoritative at runtime), a Badger-backed
// durable mirror written inside each presence toggle, and the append-only
// scan ledger. On startup, Recover rebuilds the memory stores from Badger;
// the ledger is replayed only by audit tooling, never by the service.
package storage
