// Command archive-api serves the DWD climate archive query API: dataset
// discovery, station metadata, and observation fetches over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgrothe/dwd-archive/internal/adapter/httpapi"
	"github.com/jgrothe/dwd-archive/internal/adapter/opendata"
	"github.com/jgrothe/dwd-archive/internal/config"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/metadata"
	"github.com/jgrothe/dwd-archive/internal/observability"
	"github.com/jgrothe/dwd-archive/internal/pipeline"
	"github.com/jgrothe/dwd-archive/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := opendata.NewClient(cfg.FetchTimeout, cfg.RequestsPerSecond, logger, metrics)
	// Listings and description files go through the cache; data zips are
	// fetched directly.
	cached := opendata.NewCachedFetcher(client, cfg.CacheSize, metrics)

	resolver := listing.NewResolver(cached, cfg.ArchiveBaseURL, logger)
	builder := metadata.NewBuilder(cached, resolver, cfg.ArchiveBaseURL, logger)
	pipe := pipeline.New(client, logger, metrics, cfg.FetchWorkers)
	svc := service.New(resolver, builder, pipe, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Probe the archive so /readyz reflects reachability before traffic.
	go func() {
		if err := svc.Warmup(ctx); err == nil {
			logger.Info("archive reachable")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
