// Package ledger implements the append-only scan ledger.
//
// Accepted scans are written as length-prefixed frames to segment files:
//
//	segment  := magic frames* [sha256 trailer]
//	frame    := length(4, big-endian) crc32(4) kind(1) payload(json)
//
// The CRC covers the kind byte and the payload. A segment gains its SHA-256
// trailer when it is finalized (rotation or clean shutdown); a segment
// without a valid trailer is an open or crash-truncated segment, and the
// reader replays whatever intact frames it holds. Records are never
// rewritten or deleted.
package ledger
