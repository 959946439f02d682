package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// archive client.
type Metrics struct {
	// Archive transport metrics.
	FetchRequests *prometheus.CounterVec   // labels: kind={listing,metadata,data}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: kind
	FetchBytes    prometheus.Counter

	// Pipeline metrics.
	FilesParsed    prometheus.Counter
	FileFailures   prometheus.Counter
	RecordsParsed  prometheus.Counter
	BatchSize      prometheus.Histogram
	BatchDuration  prometheus.Histogram
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}
	ExportMessages prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.FetchBytes,
		m.FilesParsed,
		m.FileFailures,
		m.RecordsParsed,
		m.BatchSize,
		m.BatchDuration,
		m.CacheLookups,
		m.ExportMessages,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "fetch_requests_total",
			Help:      "Archive fetch requests by payload kind and outcome.",
		}, []string{"kind", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dwd_archive",
			Name:      "fetch_duration_seconds",
			Help:      "Archive request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		FetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "fetch_bytes_total",
			Help:      "Total bytes downloaded from the archive.",
		}),
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "files_parsed_total",
			Help:      "Station data files successfully fetched and parsed.",
		}),
		FileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "file_failures_total",
			Help:      "Station data files that failed to fetch or parse.",
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "records_parsed_total",
			Help:      "Observation records parsed from product files.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dwd_archive",
			Name:      "batch_size",
			Help:      "Number of file references per observation fetch.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dwd_archive",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete observation fetch across all files.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "cache_lookups_total",
			Help:      "Fetch cache lookups by result.",
		}, []string{"result"}),
		ExportMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwd_archive",
			Name:      "export_messages_total",
			Help:      "Observation records published to the Kafka sink.",
		}),
	}
}
