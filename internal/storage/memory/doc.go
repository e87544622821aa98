// Package memory provides the in-memory presence store and operator
// directory for the gate service.
//
// It is the authoritative owner of attendee presence state. All presence
// mutation flows through ToggleAndRecord, a single atomic read-modify-write
// on a sharded concurrent map: scans for different attendees never contend,
// scans for the same attendee are fully serialized.
package memory
