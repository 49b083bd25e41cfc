// sentinel-rfi browser server entry point
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rkm/sentinel-rfi/internal/aggregate"
	"github.com/rkm/sentinel-rfi/internal/api"
	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/config"
	"github.com/rkm/sentinel-rfi/internal/signal"
	"github.com/rkm/sentinel-rfi/internal/sites"
	"github.com/rkm/sentinel-rfi/internal/tiles"
	"github.com/rkm/sentinel-rfi/internal/view"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("starting sentinel-rfi browser",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"archive", cfg.Archive.BaseURL,
	)

	archiveClient := archive.NewClient(cfg.Archive.BaseURL, cfg.Archive.Timeout).WithLogger(logger)
	tilesClient := tiles.NewClient(cfg.Tiles.BaseURL, cfg.Tiles.Timeout).WithLogger(logger)

	// Load the observation archive snapshot the session runs against.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Archive.Timeout)
	collection, err := archiveClient.Load(loadCtx, cfg.Archive.MaxResults)
	cancelLoad()
	if err != nil {
		return fmt.Errorf("failed to load observation collection: %w", err)
	}
	logger.Info("loaded observation collection", "count", collection.Len())

	aggregator := aggregate.New(archiveClient, logger)
	extractor := signal.NewExtractor(archiveClient, cfg.View.SampleRadius, logger)
	pipeline := view.NewSessionPipeline(collection, aggregator, extractor, tilesClient, logger)

	registry := sites.Default()
	logger.Info("loaded example sites", "count", registry.Count())

	controller := view.NewController(pipeline, registry, logger)
	controller.Bootstrap(context.Background())
	defer controller.Close()

	handlers := api.NewHandlers(controller, registry, logger)
	router := api.NewRouter(handlers, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	ossignal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
