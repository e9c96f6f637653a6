package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nws_dwml"

// OutcomeSuccess labels successful runs on RunsTotal. Failed runs are
// labeled by error kind, see Outcome.
const OutcomeSuccess = "success"

// Outcome returns the RunsTotal label for a run that ended with the given
// error kind ("" for success).
func Outcome(kind string) string {
	if kind == "" {
		return OutcomeSuccess
	}
	return kind + "_error"
}

// Metrics holds the Prometheus counters, histograms, and gauges for scrape runs.
type Metrics struct {
	RunsTotal           *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error,empty_error,upload_error,internal_error}
	RowsFlattened       prometheus.Counter
	LastRunRows         prometheus.Gauge
	LastSuccessUnixTime prometheus.Gauge

	RunDuration   prometheus.Histogram
	FetchDuration prometheus.Histogram

	UploadBytes  *prometheus.CounterVec // labels: artifact={raw,csv}
	NotifyErrors prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RunsTotal,
		m.RowsFlattened,
		m.LastRunRows,
		m.LastSuccessUnixTime,
		m.RunDuration,
		m.FetchDuration,
		m.UploadBytes,
		m.NotifyErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Scrape runs by outcome.",
		}, []string{"outcome"}),
		RowsFlattened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_flattened_total",
			Help:      "Total forecast rows written across all runs.",
		}),
		LastRunRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_rows",
			Help:      "Rows produced by the most recent successful run.",
		}),
		LastSuccessUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the most recent successful run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-flatten-upload run.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the DWML download.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		UploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes written to object storage by artifact.",
		}, []string{"artifact"}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_errors_total",
			Help:      "Run notifications that failed to publish.",
		}),
	}
}
