// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for eventgate-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Pass    PassSection    `koanf:"pass"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimitPerOperator is the sustained scans-per-second budget each
	// operator station gets. Burst is twice this value.
	RateLimitPerOperator float64 `koanf:"rate_limit_per_operator"`
}

// StorageSection configures storage behavior.
type StorageSection struct {
	DataDir string `koanf:"data_dir"`

	// BadgerGCInterval is the interval between value log GC runs.
	BadgerGCInterval string `koanf:"badger_gc_interval"`

	// BadgerSyncWrites fsyncs every mirror write. Leave on: the mirror
	// write inside the toggle is the scan's durability point.
	BadgerSyncWrites bool `koanf:"badger_sync_writes"`

	// LedgerSyncMode is "sync" or "batch".
	LedgerSyncMode string `koanf:"ledger_sync_mode"`

	// LedgerSyncInterval is the flush timer in batch mode.
	LedgerSyncInterval time.Duration `koanf:"ledger_sync_interval"`
}

// PassSection configures the rotating pass codec.
type PassSection struct {
	// Secret is the HMAC secret shared by issuers and verifiers.
	Secret string `koanf:"secret"`

	// WindowDuration is the rotation window.
	WindowDuration time.Duration `koanf:"window_duration"`

	// GraceWindows is the number of adjacent windows accepted on each side.
	GraceWindows int `koanf:"grace_windows"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
