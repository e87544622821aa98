// Package main provides the entry point for eventgate-server.
//
// eventgate-server is the gate service process: it verifies rotating and
// static pass tokens, toggles attendee presence, and records every
// accepted scan in an append-only ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/service"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/buildinfo"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/confloader"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/shutdown"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/server/config"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/server/httpserver"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/ledger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("eventgate-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting eventgate-server",
		"version", buildinfo.Get().Version,
		"commit", buildinfo.Get().Commit,
		"config", *configFile)

	storageEngine, err := initStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ctx := context.Background()
	if err := storageEngine.Recover(ctx); err != nil {
		return fmt.Errorf("storage recovery: %w", err)
	}

	metrics := metric.NewRegistry()
	storageEngine.Badger().RegisterMetrics(metrics.Prometheus())
	metrics.AttendeesInside.Set(float64(storageEngine.Attendees().CountInside()))

	services := initServices(cfg, storageEngine, log)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		ScanService:          services.Scan,
		StaticService:        services.Static,
		Attendees:            storageEngine.Attendees(),
		Operators:            storageEngine.Operators(),
		Auth:                 storageEngine.Operators(),
		Metrics:              metrics,
		Logger:               log,
		RateLimitPerOperator: cfg.Server.HTTP.RateLimitPerOperator,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	shutdownHandler.OnShutdown("storage", func(ctx context.Context) error {
		log.Info("shutting down storage engine")
		return storageEngine.Close()
	})

	if *configFile != "" {
		watcher, err := confloader.NewWatcher(*configFile, confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		watcher.OnChange(func(path string) {
			reloaded, err := loadConfig(path)
			if err != nil {
				log.Error("config reload failed, keeping current settings", "error", err)
				return
			}
			if reloaded.Log.Level != logger.GetLevel() {
				log.Info("log level changed", "from", logger.GetLevel(), "to", reloaded.Log.Level)
				logger.SetLevel(reloaded.Log.Level)
			}
		})
		go watcher.Start()
		shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
			return watcher.Stop()
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and sets it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initStorage initializes the storage engine from server configuration.
func initStorage(cfg *config.ServerConfig, log logger.Logger) (*storage.Engine, error) {
	storageCfg := storage.DefaultConfig(cfg.Storage.DataDir)
	storageCfg.Badger.SyncWrites = cfg.Storage.BadgerSyncWrites

	if cfg.Storage.BadgerGCInterval != "" {
		storageCfg.Badger.GCInterval = cfg.Storage.BadgerGCInterval
	}
	if cfg.Storage.LedgerSyncMode != "" {
		storageCfg.Ledger.SyncMode = ledger.SyncMode(cfg.Storage.LedgerSyncMode)
	}
	if cfg.Storage.LedgerSyncInterval > 0 {
		storageCfg.Ledger.SyncInterval = cfg.Storage.LedgerSyncInterval
	}

	return storage.New(storageCfg, log)
}

// Services holds all initialized services.
type Services struct {
	Scan   *service.ScanService
	Pass   *service.PassService
	Static *service.StaticService
}

// initServices wires the token and scan services onto the storage engine.
func initServices(cfg *config.ServerConfig, storageEngine *storage.Engine, log logger.Logger) *Services {
	secret := []byte(cfg.Pass.Secret)

	passCfg := service.DefaultPassConfig(secret)
	if cfg.Pass.WindowDuration > 0 {
		passCfg.WindowDuration = cfg.Pass.WindowDuration
	}
	if cfg.Pass.GraceWindows > 0 {
		passCfg.GraceWindows = cfg.Pass.GraceWindows
	}

	pass := service.NewPassService(passCfg)
	static := service.NewStaticService(secret)
	verifier := service.NewVerifierChain(
		&service.RotatingVerifier{Pass: pass},
		&service.StaticVerifier{Static: static},
	)

	scan := service.NewScanService(
		verifier,
		storageEngine.Attendees(),
		storageEngine.Attendees(),
		storageEngine.Ledger(),
		storageEngine.Operators(),
		pass,
		log,
	)

	log.Info("services initialized",
		"window", passCfg.WindowDuration.String(),
		"grace_windows", passCfg.GraceWindows)

	return &Services{Scan: scan, Pass: pass, Static: static}
}
