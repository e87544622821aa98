package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
)

// Common errors.
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrClosed      = errors.New("storage: engine closed")
)

// Key prefixes in the Badger keyspace.
const (
	attendeeKeyPrefix = "attendee/"
	operatorKeyPrefix = "operator/"
)

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs. Default: 10m.
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0). Default: 0.5.
	GCThreshold float64

	// CacheSize is the block cache size in bytes. Default: 64MB.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes. Default: 1GB.
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write. On by default: the mirror
	// write inside the presence toggle is the durability point for scans.
	SyncWrites bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20,
		ValueLogFileSize: 1 << 30,
		SyncWrites:       true,
	}
}

// BadgerStore is the durable mirror of attendee and operator state,
// backed by Badger v3. It satisfies memory.Mirror and memory.OperatorMirror.
type BadgerStore struct {
	db  *badger.DB
	cfg BadgerConfig
	log logger.Logger

	lastGCTime       atomic.Int64
	gcBytesReclaimed atomic.Uint64

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenBadger opens the durable store at dir.
func OpenBadger(dir string, cfg BadgerConfig, log logger.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log: log}
	opts.BlockCacheSize = cfg.CacheSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		cfg:    cfg,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop()

	log.Info("badger store opened",
		"dir", dir,
		"sync_writes", cfg.SyncWrites,
		"gc_interval", cfg.GCInterval)

	return s, nil
}

// SaveAttendee durably writes an attendee record.
func (s *BadgerStore) SaveAttendee(_ context.Context, attendee *domain.Attendee) error {
	return s.saveJSON(attendeeKeyPrefix+attendee.ID, attendee)
}

// SaveOperator durably writes an operator record.
func (s *BadgerStore) SaveOperator(_ context.Context, operator *domain.Operator) error {
	return s.saveJSON(operatorKeyPrefix+operator.ID, operator)
}

func (s *BadgerStore) saveJSON(key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// LoadAttendees reads all persisted attendees, for startup recovery.
func (s *BadgerStore) LoadAttendees(_ context.Context) ([]*domain.Attendee, error) {
	var out []*domain.Attendee
	err := s.scan(attendeeKeyPrefix, func(value []byte) error {
		var a domain.Attendee
		if err := json.Unmarshal(value, &a); err != nil {
			return err
		}
		out = append(out, &a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: load attendees: %w", err)
	}
	return out, nil
}

// LoadOperators reads all persisted operators, for startup recovery.
func (s *BadgerStore) LoadOperators(_ context.Context) ([]*domain.Operator, error) {
	var out []*domain.Operator
	err := s.scan(operatorKeyPrefix, func(value []byte) error {
		var o domain.Operator
		if err := json.Unmarshal(value, &o); err != nil {
			return err
		}
		out = append(out, &o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: load operators: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) scan(prefix string, fn func(value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(value); err != nil {
				return err
			}
		}
		return nil
	})
}

// GC triggers value log garbage collection until nothing more is reclaimed.
func (s *BadgerStore) GC(_ context.Context) (uint64, error) {
	start := time.Now()

	var reclaimed uint64
	for {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return reclaimed, fmt.Errorf("storage: gc: %w", err)
		}
		// Badger reports no exact byte count per rewrite.
		reclaimed += 1 << 20
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcBytesReclaimed.Add(reclaimed)

	s.log.Info("gc completed",
		"bytes_reclaimed", reclaimed,
		"elapsed", time.Since(start))

	return reclaimed, nil
}

// Stats contains durable store statistics.
type Stats struct {
	LSMSize          uint64
	ValueLogSize     uint64
	TotalSize        uint64
	LastGCTime       int64
	GCBytesReclaimed uint64
}

// Stats returns storage statistics.
func (s *BadgerStore) Stats() Stats {
	lsm, vlog := s.db.Size()
	return Stats{
		LSMSize:          uint64(lsm),
		ValueLogSize:     uint64(vlog),
		TotalSize:        uint64(lsm + vlog),
		LastGCTime:       s.lastGCTime.Load(),
		GCBytesReclaimed: s.gcBytesReclaimed.Load(),
	}
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: close badger: %w", err)
	}
	s.log.Info("badger store closed")
	return nil
}

// RegisterMetrics registers Badger size gauges with the registry and starts
// the updater. Call once during initialization.
func (s *BadgerStore) RegisterMetrics(registry *prometheus.Registry) *BadgerStore {
	s.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventgate",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})

	s.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventgate",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})

	s.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventgate",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})

	registry.MustRegister(
		s.metricsLSMSize,
		s.metricsValueLogSize,
		s.metricsLastGCTime,
	)

	go s.metricsUpdateLoop()
	return s
}

func (s *BadgerStore) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := s.Stats()
			s.metricsLSMSize.Set(float64(stats.LSMSize))
			s.metricsValueLogSize.Set(float64(stats.ValueLogSize))
			if stats.LastGCTime > 0 {
				s.metricsLastGCTime.Set(float64(stats.LastGCTime) / 1000.0)
			}
		case <-s.stopCh:
			return
		}
	}
}

func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	interval, err := time.ParseDuration(s.cfg.GCInterval)
	if err != nil {
		s.log.Error("invalid gc_interval, using default 10m", "error", err)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := s.GC(ctx); err != nil {
				s.log.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
