package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// Frame errors.
var (
	ErrCorruptedFrame   = errors.New("ledger: corrupted frame")
	ErrChecksumMismatch = errors.New("ledger: checksum mismatch")
	ErrInvalidKind      = errors.New("ledger: invalid record kind")
)

// Kind bytes stored in the frame header.
const (
	kindEntry byte = 1
	kindExit  byte = 2
)

func kindByte(k domain.ScanKind) (byte, error) {
	switch k {
	case domain.ScanEntry:
		return kindEntry, nil
	case domain.ScanExit:
		return kindExit, nil
	}
	return 0, ErrInvalidKind
}

func kindFromByte(b byte) (domain.ScanKind, error) {
	switch b {
	case kindEntry:
		return domain.ScanEntry, nil
	case kindExit:
		return domain.ScanExit, nil
	}
	return "", ErrInvalidKind
}

// encodeFrame serializes a scan record.
// Frame layout: [length:4][crc32:4][kind:1][payload...]; length counts
// everything after itself.
func encodeFrame(record *domain.ScanRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("ledger: record is nil")
	}

	kb, err := kindByte(record.Kind)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("ledger: marshal record: %w", err)
	}

	crc := crc32.ChecksumIEEE(append([]byte{kb}, payload...))

	length := uint32(4 + 1 + len(payload))
	out := make([]byte, 0, 4+int(length))

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], length)
	out = append(out, buf[:]...)
	binary.BigEndian.PutUint32(buf[:], crc)
	out = append(out, buf[:]...)
	out = append(out, kb)
	out = append(out, payload...)
	return out, nil
}

// decodeFrame parses a frame body (everything after the length prefix).
func decodeFrame(frame []byte) (*domain.ScanRecord, error) {
	if len(frame) < 5 {
		return nil, ErrCorruptedFrame
	}

	wantCRC := binary.BigEndian.Uint32(frame[:4])
	kb := frame[4]
	payload := frame[5:]

	if crc32.ChecksumIEEE(append([]byte{kb}, payload...)) != wantCRC {
		return nil, ErrChecksumMismatch
	}

	kind, err := kindFromByte(kb)
	if err != nil {
		return nil, err
	}

	var record domain.ScanRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("ledger: unmarshal record: %w", err)
	}
	if record.Kind != kind {
		return nil, ErrCorruptedFrame
	}
	return &record, nil
}
