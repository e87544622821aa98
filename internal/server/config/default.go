// Package config defines the server configuration structure.
package config

import (
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// Default configuration values.
const (
	DefaultHTTPAddr             = "127.0.0.1:5080"
	DefaultRateLimitPerOperator = 5.0

	DefaultDataDir            = "/var/lib/eventgate-server/data"
	DefaultBadgerGCInterval   = "10m"
	DefaultLedgerSyncMode     = "batch"
	DefaultLedgerSyncInterval = time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration. The pass secret has no
// default and must come from configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:                 DefaultHTTPAddr,
				RateLimitPerOperator: DefaultRateLimitPerOperator,
			},
		},
		Storage: StorageSection{
			DataDir:            DefaultDataDir,
			BadgerGCInterval:   DefaultBadgerGCInterval,
			BadgerSyncWrites:   true,
			LedgerSyncMode:     DefaultLedgerSyncMode,
			LedgerSyncInterval: DefaultLedgerSyncInterval,
		},
		Pass: PassSection{
			WindowDuration: domain.DefaultWindowDuration,
			GraceWindows:   domain.DefaultGraceWindows,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
