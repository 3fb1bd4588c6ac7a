package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/samplesheet/internal/config"
	"github.com/JonMunkholm/samplesheet/internal/core"
	"github.com/JonMunkholm/samplesheet/internal/logging"
	"github.com/JonMunkholm/samplesheet/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"schema", cfg.Validation.SchemaPath,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	schema, err := core.LoadSchema(cfg.Validation.SchemaPath)
	if err != nil {
		slog.Error("failed to load schema", "error", err, "code", core.MapError(err).Code)
		os.Exit(1)
	}

	core.ValidationTimeout = cfg.Upload.Timeout

	service, err := core.NewService(core.ServiceConfig{
		Schema: schema,
		Options: core.Options{
			AllowedColumns:    cfg.Validation.AllowedColumns,
			SingleCellKeyword: cfg.Validation.SingleCellKeyword,
			LaneColumn:        cfg.Validation.LaneColumn,
		},
		DataSections:  cfg.Validation.DataSections,
		IndexField:    cfg.Validation.IndexField,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("schema loaded",
		"path", cfg.Validation.SchemaPath,
		"allowed_columns", len(service.AllowedColumns()),
		"data_sections", cfg.Validation.DataSections,
	)

	server := web.NewServer(service, cfg)

	// Graceful shutdown. Start returns as soon as Shutdown begins, so main
	// waits on done for in-flight validations.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for validations to complete", "active", status.Active)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
