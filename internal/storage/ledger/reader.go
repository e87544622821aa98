package ledger

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// ErrCorrupted marks a segment that cannot be replayed at all.
var ErrCorrupted = errors.New("ledger: corrupted segment")

type segmentInfo struct {
	id   uint64
	path string
}

// Reader replays ledger records across all segments in append order.
// A corrupt frame ends the replay of its segment; later segments still
// replay.
type Reader struct {
	dir string

	segments []segmentInfo
	segIndex int

	file    *os.File
	dataLen int64
	reader  *bufio.Reader
}

// NewReader creates a reader over the ledger directory.
func NewReader(dir string) (*Reader, error) {
	r := &Reader{dir: dir}
	if err := r.scanSegments(); err != nil {
		return nil, err
	}
	return r, nil
}

// Read returns the next record, or io.EOF after the last segment.
func (r *Reader) Read() (*domain.ScanRecord, error) {
	for {
		if r.reader == nil {
			if err := r.openNextSegment(); err != nil {
				return nil, err
			}
		}

		record, err := r.readOneFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				r.closeCurrent()
				continue
			}
			if errors.Is(err, ErrCorruptedFrame) || errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidKind) {
				// Truncated or garbled tail; stop replaying this segment.
				r.closeCurrent()
				continue
			}
			return nil, err
		}
		return record, nil
	}
}

// ReadAll replays every intact record in the ledger.
func (r *Reader) ReadAll() ([]*domain.ScanRecord, error) {
	var out []*domain.ScanRecord
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, record)
	}
}

// Close closes any open segment file.
func (r *Reader) Close() error {
	return r.closeCurrent()
}

func (r *Reader) scanSegments() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.segments = nil
			return nil
		}
		return err
	}

	var segs []segmentInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := parseSegmentFilename(e.Name())
		if !ok {
			continue
		}
		segs = append(segs, segmentInfo{id: id, path: filepath.Join(r.dir, e.Name())})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].id < segs[j].id })
	r.segments = segs
	return nil
}

func (r *Reader) openNextSegment() error {
	r.closeCurrent()

	if r.segIndex >= len(r.segments) {
		return io.EOF
	}

	seg := r.segments[r.segIndex]
	r.segIndex++

	f, err := os.Open(seg.path)
	if err != nil {
		return err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	closed, dataLen, err := verifyChecksumTrailer(f, stat.Size())
	if err != nil {
		if errors.Is(err, errInvalidMagic) {
			// Not a ledger segment; skip it.
			f.Close()
			return r.openNextSegment()
		}
		f.Close()
		return err
	}

	if closed && dataLen < MagicBytesSize {
		f.Close()
		return ErrCorrupted
	}

	// Open segments have no trailer; replay everything after the magic.
	limit := stat.Size()
	if closed {
		limit = dataLen
	}

	r.file = f
	r.dataLen = limit
	r.reader = bufio.NewReader(io.NewSectionReader(f, MagicBytesSize, limit-MagicBytesSize))
	return nil
}

func (r *Reader) closeCurrent() error {
	r.reader = nil
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

func (r *Reader) readOneFrame() (*domain.ScanRecord, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.reader, lenBuf[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lenBuf[:])
	if length < 5 {
		return nil, ErrCorruptedFrame
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(r.reader, frame); err != nil {
		return nil, err
	}

	return decodeFrame(frame)
}
