// Package config loads service settings from environment variables, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jgrothe/dwd-archive/internal/adapter/opendata"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Archive transport.
	ArchiveBaseURL    string
	FetchTimeout      time.Duration
	RequestsPerSecond float64
	FetchWorkers      int
	CacheSize         int

	// Kafka export (cmd/export).
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	rps, err := parseFloat("FETCH_RATE_LIMIT", "4")
	if err != nil {
		return nil, err
	}

	workers, err := parseBoundedInt("FETCH_WORKERS", "8", 1, 64)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseBoundedInt("CACHE_SIZE", "256", 1, 100000)
	if err != nil {
		return nil, err
	}

	brokers := splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	topic := envOrDefault("KAFKA_TOPIC", "climate-observations")
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid KAFKA_ENABLED")
		}
	}

	return &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ArchiveBaseURL:    envOrDefault("ARCHIVE_BASE_URL", opendata.BaseURL),
		FetchTimeout:      fetchTimeout,
		RequestsPerSecond: rps,
		FetchWorkers:      workers,
		CacheSize:         cacheSize,

		KafkaBrokers: brokers,
		KafkaTopic:   topic,
		KafkaEnabled: kafkaEnabled,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseBoundedInt(key, fallback string, min, max int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, fallback))
	if err != nil || v < min || v > max {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d, %d]", key, min, max)
	}
	return v, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
