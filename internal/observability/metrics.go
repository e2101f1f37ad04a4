// Package observability provides Prometheus metrics for pipeline runs.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nba-feature-lab/internal/features"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "featurelab"

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the pipeline metrics.
type Metrics struct {
	// Loading
	TablesLoaded prometheus.Counter
	InputRows    prometheus.Counter

	// Filtering
	DroppedRows *prometheus.CounterVec

	// Output
	OutputRows   prometheus.Counter
	RowsWritten  *prometheus.CounterVec
	RollingTeams prometheus.Gauge

	// Runs
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	LastSuccessTS prometheus.Gauge
}

// NewMetrics registers the pipeline metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		TablesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "tables_loaded_total",
			Help:      "Total number of team-season game log tables loaded",
		}),
		InputRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "input_rows_total",
			Help:      "Total number of raw game log rows read",
		}),
		DroppedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "dropped_rows_total",
			Help:      "Total number of rows dropped by reason",
		}, []string{"reason"}),
		OutputRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "output_rows_total",
			Help:      "Total number of feature rows produced",
		}),
		RowsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "rows_written_total",
			Help:      "Total number of feature rows written by sink kind",
		}, []string{"sink"}),
		RollingTeams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "teams",
			Help:      "Number of team timelines in the last run",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"status"}),
		LastSuccessTS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// RecordDrops adds dropped row counts per reason.
func (m *Metrics) RecordDrops(drops features.DropCounts) {
	for reason, n := range drops {
		m.DroppedRows.WithLabelValues(string(reason)).Add(float64(n))
	}
}

// RecordRun records a finished run. A non-nil err counts as a failure.
func (m *Metrics) RecordRun(d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		m.LastSuccessTS.SetToCurrentTime()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint of gatherer.
// A nil gatherer serves the default registry.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewMux serves /metrics and a /health probe.
func NewMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}
