package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/ledger"
)

func writeLedgerFixture(t *testing.T, dir string, count int) {
	t.Helper()

	cfg := ledger.DefaultConfig(dir)
	cfg.SyncMode = ledger.SyncModeSync
	writer, err := ledger.NewWriter(cfg)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		kind := domain.ScanEntry
		if i%2 == 1 {
			kind = domain.ScanExit
		}
		record, err := domain.NewScanRecord("egat-fixture", "egop-fixture", kind, uint64(i+1), 0, at.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("NewScanRecord: %v", err)
		}
		if err := writer.Append(context.Background(), record); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func runLedgerDump(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	err := app.Run(append([]string{"gate-admin"}, args...))
	return buf.String(), err
}

func TestLedgerDump(t *testing.T) {
	dir := t.TempDir()
	writeLedgerFixture(t, dir, 4)

	out, err := runLedgerDump(t, "ledger", "dump", "--dir", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(out, "egat-fixture") {
		t.Errorf("output missing attendee id:\n%s", out)
	}
	if !strings.Contains(out, "ENTRY") || !strings.Contains(out, "EXIT") {
		t.Errorf("output missing scan kinds:\n%s", out)
	}
	if !strings.Contains(out, "4 records") {
		t.Errorf("output missing record count:\n%s", out)
	}
}

func TestLedgerDumpLimit(t *testing.T) {
	dir := t.TempDir()
	writeLedgerFixture(t, dir, 5)

	out, err := runLedgerDump(t, "ledger", "dump", "--dir", dir, "--limit", "2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "2 records") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestLedgerDumpMissingDir(t *testing.T) {
	if _, err := runLedgerDump(t, "ledger", "dump", "--dir", "/nonexistent/ledger-dir"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
