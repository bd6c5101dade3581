// main is the entry point of the student registry service.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env and env overrides)
//  2. Initialise the logger
//  3. Connect to (and set up) the configured database
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aanand-mishra/student-registry/internal/config"
	"github.com/aanand-mishra/student-registry/internal/http/handlers/page"
	"github.com/aanand-mishra/student-registry/internal/http/router"
	"github.com/aanand-mishra/student-registry/internal/metrics"
	"github.com/aanand-mishra/student-registry/internal/registry"
	"github.com/aanand-mishra/student-registry/internal/storage/postgres"
	"github.com/aanand-mishra/student-registry/internal/storage/sqldb"
	"github.com/aanand-mishra/student-registry/internal/storage/sqlite"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "students-api",
		Short:         "Student registration records over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.MustLoad(configPath))
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration YAML file (or set CONFIG_PATH)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("students-api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// ── Logger ────────────────────────────────────────────────────────────
	log := setupLogger(cfg.Env, cfg.Log)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ── Storage ───────────────────────────────────────────────────────────
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.Bool("reuse_connections", cfg.Storage.ReuseConnections))

	// ── Service, metrics and routes ───────────────────────────────────────
	collector := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := registry.New(store, collector)

	pg, err := page.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.New(svc, pg, reg),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── Serve until a signal arrives ──────────────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serveErr:
		return fmt.Errorf("server encountered an error: %w", err)
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (*sqldb.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg)
	default:
		return sqlite.New(ctx, cfg)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
//
// When logCfg.File is set, the same records are also written to a
// size-rotated file.
func setupLogger(env string, logCfg config.Log) *slog.Logger {
	var out io.Writer = os.Stdout
	if logCfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.MaxSizeMB,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAgeDays,
			Compress:   logCfg.Compress,
		})
	}

	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default: // "dev" and anything unrecognised
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
