package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fte/internal/domain"
)

const (
	MetricsNamespace = "fte"
)

// Metrics holds the collectors for one registry
type Metrics struct {
	registry *prometheus.Registry

	testResults     *prometheus.CounterVec
	testDuration    prometheus.Histogram
	runsTotal       *prometheus.CounterVec
	discoveryCycles prometheus.Counter
	discoveredTests prometheus.Gauge
	discoveredFiles prometheus.Gauge
	unreadableFiles prometheus.Counter
}

// New creates collectors registered on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		testResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "test_results_total",
			Help:      "Count of terminal test results by status",
		}, []string{"status"}),
		testDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "test_duration_seconds",
			Help:      "Wall time of a single forge invocation",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_total",
			Help:      "Count of run sessions by outcome",
		}, []string{"outcome"}),
		discoveryCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "discovery_cycles_total",
			Help:      "Count of completed discovery cycles",
		}),
		discoveredTests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "discovered_tests",
			Help:      "Test functions found by the last discovery cycle",
		}),
		discoveredFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "discovered_files",
			Help:      "Test files found by the last discovery cycle",
		}),
		unreadableFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "unreadable_files_total",
			Help:      "Count of test files that could not be read during discovery",
		}),
	}

	registry.MustRegister(
		m.testResults,
		m.testDuration,
		m.runsTotal,
		m.discoveryCycles,
		m.discoveredTests,
		m.discoveredFiles,
		m.unreadableFiles,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDiscovery records the totals of one discovery cycle
func (m *Metrics) RecordDiscovery(files, tests, failed int) {
	m.discoveryCycles.Inc()
	m.discoveredFiles.Set(float64(files))
	m.discoveredTests.Set(float64(tests))
	m.unreadableFiles.Add(float64(failed))
}

// RecordResult records one terminal test result
func (m *Metrics) RecordResult(result domain.RunResult) {
	if !result.Status.IsTerminal() {
		return
	}
	m.testResults.WithLabelValues(result.Status.String()).Inc()
	if result.Status != domain.StatusNotFound {
		m.testDuration.Observe(result.Duration.Seconds())
	}
}

// RecordRun records how a run session ended
func (m *Metrics) RecordRun(summary domain.RunSummary) {
	outcome := "completed"
	if summary.Cancelled {
		outcome = "cancelled"
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
}
