// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
	"time"
)

// MinSecretLength is the minimum byte length of the pass secret.
const MinSecretLength = 16

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyPass(&cfg.Pass)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http: tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.RateLimitPerOperator < 0 {
		return errors.New("server.http.rate_limit_per_operator must be non-negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	if cfg.BadgerGCInterval != "" {
		if _, err := time.ParseDuration(cfg.BadgerGCInterval); err != nil {
			return errors.New("storage.badger_gc_interval is not a duration: " + err.Error())
		}
	}

	switch cfg.LedgerSyncMode {
	case "", "sync", "batch":
	default:
		return errors.New("storage.ledger_sync_mode must be \"sync\" or \"batch\"")
	}
	return nil
}

func verifyPass(cfg *PassSection) error {
	if len(cfg.Secret) < MinSecretLength {
		return errors.New("pass.secret must be at least 16 bytes")
	}
	if cfg.WindowDuration < time.Second {
		return errors.New("pass.window_duration must be at least 1s")
	}
	if cfg.GraceWindows < 0 {
		return errors.New("pass.grace_windows must be non-negative")
	}
	return nil
}
