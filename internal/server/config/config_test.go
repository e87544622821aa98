package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *ServerConfig {
	t.Helper()
	cfg := Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Pass.Secret = "a-long-enough-shared-secret"
	return cfg
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Pass.WindowDuration != 30*time.Second {
		t.Errorf("WindowDuration = %v, want 30s", cfg.Pass.WindowDuration)
	}
	if cfg.Pass.GraceWindows != 2 {
		t.Errorf("GraceWindows = %d, want 2", cfg.Pass.GraceWindows)
	}
	if !cfg.Storage.BadgerSyncWrites {
		t.Error("BadgerSyncWrites should default to true")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
}

func TestVerifyAcceptsValidConfig(t *testing.T) {
	if err := Verify(validConfig(t)); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerifyRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantSub string
	}{
		{
			name:    "missing addr",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.Addr = "" },
			wantSub: "server.http.addr",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "cert.pem" },
			wantSub: "tls_cert_file",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.RateLimitPerOperator = -1 },
			wantSub: "rate_limit_per_operator",
		},
		{
			name:    "missing data dir",
			mutate:  func(c *ServerConfig) { c.Storage.DataDir = "" },
			wantSub: "storage.data_dir",
		},
		{
			name:    "bad gc interval",
			mutate:  func(c *ServerConfig) { c.Storage.BadgerGCInterval = "often" },
			wantSub: "badger_gc_interval",
		},
		{
			name:    "bad ledger sync mode",
			mutate:  func(c *ServerConfig) { c.Storage.LedgerSyncMode = "eventually" },
			wantSub: "ledger_sync_mode",
		},
		{
			name:    "short secret",
			mutate:  func(c *ServerConfig) { c.Pass.Secret = "short" },
			wantSub: "pass.secret",
		},
		{
			name:    "tiny window",
			mutate:  func(c *ServerConfig) { c.Pass.WindowDuration = 100 * time.Millisecond },
			wantSub: "window_duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify should fail")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestSanitizeMasksSecret(t *testing.T) {
	cfg := validConfig(t)
	sanitized := Sanitize(cfg)

	if sanitized.Pass.Secret == cfg.Pass.Secret {
		t.Error("Sanitize should mask the pass secret")
	}
	if !strings.HasPrefix(sanitized.Pass.Secret, cfg.Pass.Secret[:2]) {
		t.Error("masked secret should keep a short recognizable prefix")
	}
	if strings.Contains(sanitized.Pass.Secret, "shared") {
		t.Error("masked secret leaks content")
	}

	// The original is untouched.
	if cfg.Pass.Secret != "a-long-enough-shared-secret" {
		t.Error("Sanitize must not mutate its input")
	}
}
