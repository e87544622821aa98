package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/ledger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/memory"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
)

// Default data subdirectories.
const (
	DefaultKVSubdir     = "kv"
	DefaultLedgerSubdir = "ledger"
)

// Config configures the storage engine.
type Config struct {
	// DataDir is the base directory for all storage files.
	DataDir string

	// Badger configures the durable key-value mirror.
	Badger BadgerConfig

	// Ledger configures the append-only scan ledger.
	Ledger ledger.Config
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Badger:  DefaultBadgerConfig(),
		Ledger:  ledger.DefaultConfig(filepath.Join(dataDir, DefaultLedgerSubdir)),
	}
}

// Engine combines the in-memory presence state, its durable Badger mirror,
// and the append-only scan ledger. The memory stores are authoritative at
// runtime; Badger exists so Recover can rebuild them after a restart.
type Engine struct {
	cfg Config

	attendees *memory.Store
	operators *memory.OperatorStore
	ledger    *ledger.Writer
	db        *BadgerStore

	log logger.Logger
}

// New creates a storage engine. Call Recover afterwards to load persisted
// state into the memory stores.
func New(cfg Config, log logger.Logger) (*Engine, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("storage: data_dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	db, err := OpenBadger(filepath.Join(cfg.DataDir, DefaultKVSubdir), cfg.Badger, log)
	if err != nil {
		return nil, err
	}

	if cfg.Ledger.Dir == "" {
		cfg.Ledger = ledger.DefaultConfig(filepath.Join(cfg.DataDir, DefaultLedgerSubdir))
	}
	ledgerWriter, err := ledger.NewWriter(cfg.Ledger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create ledger writer: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		attendees: memory.New(memory.WithMirror(db)),
		operators: memory.NewOperatorStore(db),
		ledger:    ledgerWriter,
		db:        db,
		log:       log,
	}, nil
}

// Recover rebuilds the memory stores from the Badger mirror.
func (e *Engine) Recover(ctx context.Context) error {
	start := time.Now()
	e.log.Info("storage recovery started")

	attendees, err := e.db.LoadAttendees(ctx)
	if err != nil {
		return err
	}
	e.attendees.Load(attendees)

	operators, err := e.db.LoadOperators(ctx)
	if err != nil {
		return err
	}
	e.operators.Load(operators)

	e.log.Info("storage recovery complete",
		"attendees", len(attendees),
		"operators", len(operators),
		"inside", e.attendees.CountInside(),
		"elapsed", time.Since(start))
	return nil
}

// Attendees returns the presence store.
func (e *Engine) Attendees() *memory.Store {
	return e.attendees
}

// Operators returns the operator directory.
func (e *Engine) Operators() *memory.OperatorStore {
	return e.operators
}

// Ledger returns the scan ledger writer.
func (e *Engine) Ledger() *ledger.Writer {
	return e.ledger
}

// Badger returns the durable mirror, for metrics registration and stats.
func (e *Engine) Badger() *BadgerStore {
	return e.db
}

// Close flushes the ledger and closes the durable store.
func (e *Engine) Close() error {
	var firstErr error
	if err := e.ledger.Close(); err != nil {
		e.log.Error("ledger close failed", "error", err)
		firstErr = err
	}
	if err := e.db.Close(); err != nil {
		e.log.Error("badger close failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
