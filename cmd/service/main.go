// Package main runs the website builder provisioning API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/handlers"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/app"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/telemetry"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/ports"
)

// Build-time variables, injected via ldflags:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("provider", cfg.Provider.Name),
	)

	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	builder, err := providers.New(cfg, logger)
	if err != nil {
		return err
	}

	healthRegistry := ports.NewHealthRegistry()
	if checker, ok := providers.HealthChecker(builder); ok {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	accountService := app.NewAccountService(app.AccountServiceConfig{
		Builder: builder,
		Logger:  logger,
	})

	healthHandler := handlers.NewHealthHandler(healthRegistry,
		handlers.NewBuildInfo(Version, Commit, BuildTime, builder.Name()))
	accountHandler := handlers.NewAccountHandler(accountService)

	if cfg.Server.APIToken == "" {
		logger.Warn("server.api_token is empty; /api/v1 is unauthenticated")
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewRouterConfig(logger, cfg, healthHandler, accountHandler))

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until SIGINT/SIGTERM or a server error, then drains
// in-flight requests. A provisioning call interrupted here may leave a
// partially created vendor account, so the shutdown timeout should exceed
// server.request_timeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
