package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/config"
	"github.com/MadAppGang/geocluster/internal/metrics"
	"github.com/MadAppGang/geocluster/internal/server"
	"github.com/MadAppGang/geocluster/internal/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Canceled on interrupt, or when the index could not be built.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	loader, cleanup, err := source.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create point source: %v", err)
	}
	defer cleanup()

	srv := server.New(appMetrics, reg, logger)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      srv,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// Requests are answered with 503 until the index is published.
	go func() {
		index, errBuild := buildIndex(ctx, loader, cfg.ClusterOptions(), appMetrics, logger)
		if errBuild != nil {
			logger.ErrorContext(ctx, "Failed to build cluster index", "error", errBuild)
			stop()
			return
		}
		srv.SetIndex(index)
	}()

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.HTTP.Port)
		if errServe := httpServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", errServe)
			stop()
		}
	}()

	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to stop HTTP server", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// buildIndex loads points from the source and clusters them
func buildIndex(
	ctx context.Context,
	loader source.Loader,
	opts cluster.Options,
	m *metrics.Metrics,
	log *slog.Logger,
) (*cluster.Cluster, error) {
	points, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load points: %w", err)
	}

	start := time.Now()
	index, err := cluster.NewCluster(points, opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	m.BuildSeconds.Observe(elapsed.Seconds())
	m.IndexPoints.Set(float64(index.Len()))
	log.InfoContext(ctx, "Cluster index built",
		"points", index.Len(),
		"min_zoom", opts.MinZoom,
		"max_zoom", opts.MaxZoom,
		"duration", elapsed,
	)
	return index, nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
