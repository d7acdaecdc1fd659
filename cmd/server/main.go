// Package main is the entry point for the wordflow API server: it wires
// Store, Parser/Importer, Search, Scheduler, Reviewer, Stats, and the
// maintenance sweep into the HTTP surface §6 describes, then serves it
// with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/YiniRuohong/wordflow/internal/api"
	"github.com/YiniRuohong/wordflow/internal/config"
	"github.com/YiniRuohong/wordflow/internal/importer"
	"github.com/YiniRuohong/wordflow/internal/maintenance"
	"github.com/YiniRuohong/wordflow/internal/platform/logger"
	"github.com/YiniRuohong/wordflow/internal/review"
	"github.com/YiniRuohong/wordflow/internal/scheduler"
	"github.com/YiniRuohong/wordflow/internal/search"
	"github.com/YiniRuohong/wordflow/internal/stats"
	"github.com/YiniRuohong/wordflow/internal/store/sqlite"
	"github.com/YiniRuohong/wordflow/internal/task"
)

func main() {
	// A local .env file is a development convenience only; a missing one
	// in production is expected and not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	st, err := sqlite.Open(ctx, cfg.Database.URL, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	taskStore := importer.NewTaskRunnerStore(st, log)
	runner := task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount: cfg.App.ImportWorkerLimit,
		QueueSize:   64,
	}, log)
	if err := runner.Start(); err != nil {
		return fmt.Errorf("starting import task runner: %w", err)
	}
	defer runner.Stop()

	imp := importer.New(st, runner, taskStore, importer.Config{
		BatchSize:    cfg.App.ImportBatchSize,
		MaxRowErrors: cfg.App.MaxRowErrors,
	}, log)

	sch := scheduler.New(st)
	sweeper := maintenance.New(st, log)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("starting maintenance sweep: %w", err)
	}
	defer sweeper.Stop()

	app := &api.App{
		Store:          st,
		Importer:       imp,
		Search:         search.New(st),
		Scheduler:      sch,
		Reviewer:       review.New(st),
		Stats:          stats.New(st, sch),
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	return serve(ctx, cfg.Server.Port, api.NewRouter(app), log)
}

// serve starts the HTTP server and blocks until a shutdown signal arrives
// or the server fails, then drains in-flight requests before returning.
func serve(ctx context.Context, port int, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			cancel()
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown signal received")
	case <-serverCtx.Done():
		log.Info("server context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server shutdown complete")
	return nil
}
