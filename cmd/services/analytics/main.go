package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petdex/analytics/internal/cache"
	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/queue"
	"github.com/petdex/analytics/internal/router"
	"github.com/petdex/analytics/internal/services"
	"github.com/petdex/analytics/internal/upstream"
	"github.com/petdex/analytics/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	limits := cfg.Analytics.Limits()
	logger.Info("Analytics limits loaded",
		"heart_rate_min", limits.HeartRateMin,
		"heart_rate_max", limits.HeartRateMax,
		"sanity_max", limits.SanityMax,
		"timezone", limits.Zone().String(),
		"gyroscope", limits.IncludeGyroscope)

	client := upstream.NewClient(cfg.Upstream, logger)
	logger.Info("Upstream configured",
		"base_url", cfg.Upstream.BaseURL,
		"animal_id", cfg.Upstream.AnimalID,
		"page_size", cfg.Upstream.PageSize,
		"concurrency", cfg.Upstream.Concurrency)

	// Snapshot cache (disabled unless configured)
	var snapshots *cache.Snapshots
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create snapshot cache", "error", err)
	}
	defer func() { _ = store.Close() }()
	if _, disabled := store.(cache.NoopStore); !disabled {
		snapshots = cache.NewSnapshots(store, cfg.Cache.Prefix, cfg.Cache.TTL, cfg.Cache.Compress)
		logger.Info("Snapshot cache enabled", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL.String())
	}

	// Alert publisher (disabled unless configured)
	var alerts *services.AlertNotifier
	if cfg.Alerts.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		publisher, err := queue.NewPublisher(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		defer func() { _ = publisher.Close() }()
		alerts = services.NewAlertNotifier(logger, publisher, cfg.Alerts.Subject, cfg.Upstream.AnimalID)
		logger.Info("Heart-rate alerts enabled", "subject", cfg.Alerts.Subject)
	}

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	telemetry := services.NewTelemetryService(client, snapshots, limits)
	analytics := services.NewAnalyticsService(logger, telemetry, alerts, limits)
	app := router.New(logger, telemetry, analytics, *cfg, Version)

	// Start server in goroutine
	go func() {
		addr := cfg.ServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
