package ledger

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

var (
	errInvalidMagic    = errors.New("ledger: invalid magic bytes")
	errChecksumInvalid = errors.New("ledger: segment checksum mismatch")
)

// Segment file format constants.
const (
	FilePrefix      = "ledger-"
	FileExtension   = ".log"
	MagicBytes      = "EGSCLOG\x01"
	MagicBytesSize  = 8
	ChecksumSize    = 32
	DefaultFilePerm = 0600
	DefaultDirPerm  = 0750
)

// Default configuration values.
const (
	DefaultBatchCount          = 64
	DefaultBatchBytes    int64 = 256 << 10
	DefaultSyncInterval        = time.Second
	DefaultMaxFileSize   int64 = 32 << 20
	DefaultMaxEntryCount       = 100000
)

// SyncMode defines when records reach disk.
type SyncMode string

const (
	// SyncModeSync fsyncs after every flush.
	SyncModeSync SyncMode = "sync"

	// SyncModeBatch flushes on batch thresholds and a timer.
	SyncModeBatch SyncMode = "batch"
)

// Config configures the ledger writer.
type Config struct {
	Dir string

	SyncMode     SyncMode
	SyncInterval time.Duration

	BatchCount int
	BatchBytes int64

	MaxFileSize   int64
	MaxEntryCount int
}

// DefaultConfig returns the default ledger configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:           dir,
		SyncMode:      SyncModeBatch,
		SyncInterval:  DefaultSyncInterval,
		BatchCount:    DefaultBatchCount,
		BatchBytes:    DefaultBatchBytes,
		MaxFileSize:   DefaultMaxFileSize,
		MaxEntryCount: DefaultMaxEntryCount,
	}
}

// Writer appends scan records to segment files.
type Writer struct {
	cfg Config

	mu sync.Mutex

	segmentID uint64
	file      *os.File
	filePath  string

	fileSize       int64 // bytes written excluding the trailer
	segmentEntries int
	hash           hash.Hash
	buffer         [][]byte
	bufferBytes    int64
	syncTicker     *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup
	closed         bool
	headerWritten  bool
}

// NewWriter opens the ledger directory for appending. If the latest segment
// is still open (no trailer) it is resumed; otherwise a new segment starts.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("ledger: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("ledger: create dir: %w", err)
	}

	applyDefaults(&cfg)

	w := &Writer{
		cfg:    cfg,
		hash:   sha256.New(),
		stopCh: make(chan struct{}),
	}

	latestID, latestPath, isClosed, err := findLatestSegment(cfg.Dir)
	if err != nil {
		return nil, err
	}

	if latestID == 0 || isClosed {
		w.segmentID = latestID + 1
		if err := w.openNewSegment(); err != nil {
			return nil, err
		}
	} else {
		w.segmentID = latestID
		w.filePath = latestPath
		if err := w.resumeOpenSegment(); err != nil {
			return nil, err
		}
	}

	if w.cfg.SyncMode == SyncModeBatch {
		w.startSyncLoop()
	}

	return w, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SyncMode == "" {
		cfg.SyncMode = SyncModeBatch
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.BatchCount == 0 {
		cfg.BatchCount = DefaultBatchCount
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = DefaultBatchBytes
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.MaxEntryCount == 0 {
		cfg.MaxEntryCount = DefaultMaxEntryCount
	}
}

// Append encodes a record and buffers it, flushing on batch thresholds.
// Records are written in call order and never rewritten.
func (w *Writer) Append(ctx context.Context, record *domain.ScanRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("ledger: writer is closed")
	}

	frame, err := encodeFrame(record)
	if err != nil {
		return err
	}

	w.buffer = append(w.buffer, frame)
	w.bufferBytes += int64(len(frame))

	if w.cfg.SyncMode == SyncModeSync ||
		len(w.buffer) >= w.cfg.BatchCount || w.bufferBytes >= w.cfg.BatchBytes {
		return w.flushLocked()
	}
	return nil
}

// Flush writes buffered records to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if len(w.buffer) == 0 {
		if w.cfg.SyncMode == SyncModeSync && w.file != nil {
			return w.file.Sync()
		}
		return nil
	}

	var buf bytes.Buffer
	for _, frame := range w.buffer {
		buf.Write(frame)
	}

	if w.file == nil {
		return fmt.Errorf("ledger: file not open")
	}

	// Rotate before writing if this batch would exceed segment limits.
	if w.fileSize+int64(buf.Len()) > w.cfg.MaxFileSize || w.segmentEntries+len(w.buffer) > w.cfg.MaxEntryCount {
		if err := w.finalizeCurrentLocked(); err != nil {
			return err
		}
		w.segmentID++
		if err := w.openNewSegment(); err != nil {
			return err
		}
	}

	if _, err := w.writeLocked(buf.Bytes()); err != nil {
		return fmt.Errorf("ledger: write batch: %w", err)
	}

	w.segmentEntries += len(w.buffer)
	w.buffer = nil
	w.bufferBytes = 0

	if w.cfg.SyncMode == SyncModeSync {
		return w.file.Sync()
	}
	return nil
}

func (w *Writer) startSyncLoop() {
	w.syncTicker = time.NewTicker(w.cfg.SyncInterval)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.syncTicker.C:
				_ = w.Flush()
			case <-w.stopCh:
				return
			}
		}
	}()
}

func (w *Writer) openNewSegment() error {
	path := filepath.Join(w.cfg.Dir, formatSegmentFilename(w.segmentID))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("ledger: open segment: %w", err)
	}

	w.file = file
	w.filePath = path
	w.fileSize = 0
	w.segmentEntries = 0
	w.hash = sha256.New()
	w.headerWritten = false

	if _, err := w.writeLocked([]byte(MagicBytes)); err != nil {
		file.Close()
		return err
	}
	w.headerWritten = true
	return nil
}

func (w *Writer) resumeOpenSegment() error {
	file, err := os.OpenFile(w.filePath, os.O_RDWR, DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("ledger: open existing segment: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("ledger: stat segment: %w", err)
	}

	magic := make([]byte, MagicBytesSize)
	if _, err := io.ReadFull(io.NewSectionReader(file, 0, MagicBytesSize), magic); err != nil {
		file.Close()
		return fmt.Errorf("ledger: read magic: %w", err)
	}
	if string(magic) != MagicBytes {
		file.Close()
		return errInvalidMagic
	}

	closed, dataLen, err := verifyChecksumTrailer(file, stat.Size())
	if err != nil {
		file.Close()
		return err
	}
	if closed {
		file.Close()
		return fmt.Errorf("ledger: latest segment already finalized")
	}

	// Recompute the running hash over existing bytes.
	w.hash = sha256.New()
	if _, err := io.CopyN(w.hash, io.NewSectionReader(file, 0, dataLen), dataLen); err != nil {
		file.Close()
		return fmt.Errorf("ledger: hash existing segment: %w", err)
	}

	w.file = file
	w.fileSize = dataLen
	w.headerWritten = true

	if _, err := file.Seek(dataLen, io.SeekStart); err != nil {
		file.Close()
		return fmt.Errorf("ledger: seek: %w", err)
	}
	return nil
}

func (w *Writer) writeLocked(p []byte) (int, error) {
	if w.file == nil {
		return 0, fmt.Errorf("ledger: file not open")
	}

	n, err := w.file.Write(p)
	if n > 0 {
		w.hash.Write(p[:n])
		w.fileSize += int64(n)
	}
	return n, err
}

func (w *Writer) finalizeCurrentLocked() error {
	checksum := w.hash.Sum(nil)

	if _, err := w.file.Write(checksum); err != nil {
		return fmt.Errorf("ledger: write checksum: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("ledger: sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("ledger: close: %w", err)
	}

	w.file = nil
	return nil
}

// Close flushes pending records and finalizes the current segment.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.stopCh)
	w.mu.Unlock()

	if w.syncTicker != nil {
		w.syncTicker.Stop()
	}
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushLocked(); err != nil {
		return err
	}
	if w.file == nil {
		return nil
	}
	return w.finalizeCurrentLocked()
}

func formatSegmentFilename(segmentID uint64) string {
	return fmt.Sprintf("%s%08d%s", FilePrefix, segmentID, FileExtension)
}

func parseSegmentFilename(name string) (uint64, bool) {
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileExtension) {
		return 0, false
	}
	var id uint64
	_, err := fmt.Sscanf(name, FilePrefix+"%d"+FileExtension, &id)
	return id, err == nil
}

func findLatestSegment(dir string) (latestID uint64, latestPath string, isClosed bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, "", false, fmt.Errorf("ledger: read dir: %w", err)
	}

	type seg struct {
		id   uint64
		path string
	}
	var segs []seg
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := parseSegmentFilename(e.Name())
		if !ok {
			continue
		}
		segs = append(segs, seg{id: id, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].id < segs[j].id })
	if len(segs) == 0 {
		return 0, "", false, nil
	}

	last := segs[len(segs)-1]
	f, err := os.Open(last.path)
	if err != nil {
		return 0, "", false, fmt.Errorf("ledger: open latest: %w", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return 0, "", false, fmt.Errorf("ledger: stat latest: %w", err)
	}

	closed, _, err := verifyChecksumTrailer(f, stat.Size())
	if err != nil && !errors.Is(err, errInvalidMagic) {
		return 0, "", false, err
	}
	return last.id, last.path, closed, nil
}

// verifyChecksumTrailer reports whether the segment ends with a valid
// SHA-256 trailer. dataLen is the byte length of the frame data.
func verifyChecksumTrailer(f *os.File, size int64) (closed bool, dataLen int64, err error) {
	if size < MagicBytesSize {
		return false, size, nil
	}

	magic := make([]byte, MagicBytesSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, MagicBytesSize), magic); err != nil {
		return false, 0, fmt.Errorf("ledger: read magic: %w", err)
	}
	if string(magic) != MagicBytes {
		return false, 0, errInvalidMagic
	}

	if size < MagicBytesSize+ChecksumSize {
		return false, size, nil
	}

	trailer := make([]byte, ChecksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, size-ChecksumSize, ChecksumSize), trailer); err != nil {
		return false, 0, fmt.Errorf("ledger: read checksum trailer: %w", err)
	}

	h := sha256.New()
	dataLen = size - ChecksumSize
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return false, 0, fmt.Errorf("ledger: hash: %w", err)
	}
	if !bytes.Equal(h.Sum(nil), trailer) {
		return false, size, nil
	}
	return true, dataLen, nil
}
