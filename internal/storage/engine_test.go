package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/ledger"
)

func testConfig(dir string) Config {
	cfg := DefaultConfig(dir)
	// Small cache and sync ledger keep tests fast and deterministic.
	cfg.Badger.CacheSize = 1 << 20
	cfg.Ledger.SyncMode = ledger.SyncModeSync
	return cfg
}

func openEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := New(testConfig(dir), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Recover(context.Background()); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	return e
}

func TestEngineRecoverRestoresState(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e := openEngine(t, dir)

	attendee, err := domain.NewAttendee("2021SE042", "Priya Nair")
	if err != nil {
		t.Fatalf("NewAttendee: %v", err)
	}
	if err := e.Attendees().Provision(ctx, attendee); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	operator, _, err := domain.NewOperator("Gate A Scanner", domain.RoleOperator)
	if err != nil {
		t.Fatalf("NewOperator: %v", err)
	}
	if err := e.Operators().Put(ctx, operator); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// One accepted entry scan: toggle plus ledger record.
	toggle, err := e.Attendees().ToggleAndRecord(ctx, attendee.ID, time.Now())
	if err != nil {
		t.Fatalf("ToggleAndRecord: %v", err)
	}
	record, err := domain.NewScanRecord(attendee.ID, operator.ID, domain.ScanEntry, toggle.ScanCount, 0, time.Now())
	if err != nil {
		t.Fatalf("NewScanRecord: %v", err)
	}
	if err := e.Ledger().Append(ctx, record); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and recover.
	e2 := openEngine(t, dir)
	defer e2.Close()

	got, err := e2.Attendees().GetByExternalID(ctx, "2021SE042")
	if err != nil {
		t.Fatalf("GetByExternalID after recovery: %v", err)
	}
	if got.LocationState != domain.Inside {
		t.Errorf("recovered state = %v, want Inside", got.LocationState)
	}
	if got.ScanCount != 1 {
		t.Errorf("recovered ScanCount = %d, want 1", got.ScanCount)
	}

	op, err := e2.Operators().Get(ctx, operator.ID)
	if err != nil {
		t.Fatalf("Get operator after recovery: %v", err)
	}
	if op.Name != "Gate A Scanner" {
		t.Errorf("recovered operator name = %q", op.Name)
	}
}

func TestEngineLedgerSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e := openEngine(t, dir)
	record, err := domain.NewScanRecord("egat-01hq3ka9x7", "egop-01hq3kb2m4", domain.ScanExit, 2, 30, time.Now())
	if err != nil {
		t.Fatalf("NewScanRecord: %v", err)
	}
	if err := e.Ledger().Append(ctx, record); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := ledger.NewReader(testConfig(dir).Ledger.Dir)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("replayed %d records, want 1", len(records))
	}
	if records[0].ID != record.ID || records[0].DurationMinutes != 30 {
		t.Errorf("replayed record = %+v, want id %s duration 30", records[0], record.ID)
	}
}

func TestEngineRequiresDataDir(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("New with empty data dir should fail")
	}
}
