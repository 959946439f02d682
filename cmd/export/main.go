// Command export fetches one dataset for a set of stations and publishes the
// parsed observation records to a Kafka topic.
//
// Usage:
//
//	KAFKA_ENABLED=true go run ./cmd/export \
//	  -parameter kl -resolution daily -period recent \
//	  -stations 44,73,96 -from 2024-01-01
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	kafkaadapter "github.com/jgrothe/dwd-archive/internal/adapter/kafka"
	"github.com/jgrothe/dwd-archive/internal/adapter/opendata"
	"github.com/jgrothe/dwd-archive/internal/config"
	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/metadata"
	"github.com/jgrothe/dwd-archive/internal/observability"
	"github.com/jgrothe/dwd-archive/internal/pipeline"
	"github.com/jgrothe/dwd-archive/internal/service"
)

func main() {
	parameter := flag.String("parameter", "", "dataset parameter, e.g. kl")
	resolution := flag.String("resolution", "", "dataset resolution, e.g. daily")
	period := flag.String("period", "", "dataset period: historical, recent, or now")
	stations := flag.String("stations", "", "comma-separated station ids")
	from := flag.String("from", "", "start date yyyy-mm-dd (optional)")
	to := flag.String("to", "", "end date yyyy-mm-dd (optional)")
	timeout := flag.Duration("timeout", 15*time.Minute, "overall deadline for the export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if !cfg.KafkaEnabled {
		logger.Error("export requires KAFKA_ENABLED=true")
		os.Exit(1)
	}

	combination, query, err := buildRequest(*parameter, *resolution, *period, *stations, *from, *to)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	client := opendata.NewClient(cfg.FetchTimeout, cfg.RequestsPerSecond, logger, metrics)
	cached := opendata.NewCachedFetcher(client, cfg.CacheSize, metrics)
	resolver := listing.NewResolver(cached, cfg.ArchiveBaseURL, logger)
	builder := metadata.NewBuilder(cached, resolver, cfg.ArchiveBaseURL, logger)
	pipe := pipeline.New(client, logger, metrics, cfg.FetchWorkers)
	svc := service.New(resolver, builder, pipe, logger)

	writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metrics)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := svc.Observations(ctx, combination, query)
	if err != nil {
		logger.Error("observation fetch failed", "dataset", combination.String(), "error", err)
		os.Exit(1)
	}
	for _, f := range result.Failed {
		logger.Warn("file skipped", "filename", f.Ref.Filename, "reason", f.Reason())
	}

	if err := writer.PublishTable(ctx, result.Table); err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
	logger.Info("export complete",
		"dataset", combination.String(),
		"records", len(result.Table.Records),
		"failed_files", len(result.Failed))
}

// buildRequest validates the CLI arguments into a dataset combination and an
// observation query.
func buildRequest(parameter, resolution, period, stations, from, to string) (domain.Combination, service.ObservationQuery, error) {
	p, err := domain.ParseParameter(parameter)
	if err != nil {
		return domain.Combination{}, service.ObservationQuery{}, err
	}
	r, err := domain.ParseResolution(resolution)
	if err != nil {
		return domain.Combination{}, service.ObservationQuery{}, err
	}
	pd, err := domain.ParsePeriod(period)
	if err != nil {
		return domain.Combination{}, service.ObservationQuery{}, err
	}
	c := domain.Combination{Parameter: p, Resolution: r, Period: pd}

	var q service.ObservationQuery
	for _, part := range strings.Split(stations, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return domain.Combination{}, service.ObservationQuery{}, err
		}
		q.Stations.IDs = append(q.Stations.IDs, id)
	}
	if len(q.Stations.IDs) == 0 {
		return domain.Combination{}, service.ObservationQuery{}, errors.New("at least one station id is required")
	}
	if from != "" {
		if q.From, err = time.Parse("2006-01-02", from); err != nil {
			return domain.Combination{}, service.ObservationQuery{}, err
		}
	}
	if to != "" {
		if q.To, err = time.Parse("2006-01-02", to); err != nil {
			return domain.Combination{}, service.ObservationQuery{}, err
		}
	}
	return c, q, nil
}
