// Package metrics exposes Prometheus collectors for analysis runs and the
// HTTP surface of the serve command.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for analysis runs.
const (
	ResultOK          = "ok"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the buckets of the duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry sets the registry collectors are registered on.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// Manager owns the collectors and the registry they live on.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	analysisRuns     *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	analysisPlayers  prometheus.Gauge
	kmeansIterations prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// NewManager builds a Manager on a private registry unless WithRegistry is
// given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "nhlmetrics",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.analysisRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analysis_runs_total",
		Help:      "Style analysis runs by result.",
	}, []string{"result"})
	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Wall time of a full analysis pipeline run.",
		Buckets:   m.buckets,
	})
	m.analysisPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "analysis_players",
		Help:      "Players that passed the filter in the last successful run.",
	})
	m.kmeansIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "kmeans_iterations",
		Help:      "K-Means iterations used per run.",
		Buckets:   prometheus.LinearBuckets(1, 2, 10),
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by path and status code.",
	}, []string{"path", "code"})
	return m
}

// ObserveAnalysis records a successful run.
func (m *Manager) ObserveAnalysis(d time.Duration, players, iterations int) {
	m.analysisRuns.WithLabelValues(ResultOK).Inc()
	m.analysisDuration.Observe(d.Seconds())
	m.analysisPlayers.Set(float64(players))
	m.kmeansIterations.Observe(float64(iterations))
}

// ObserveFailure records a failed run under the given result label.
func (m *Manager) ObserveFailure(result string) {
	m.analysisRuns.WithLabelValues(result).Inc()
}

// ObserveRequest counts one HTTP response.
func (m *Manager) ObserveRequest(path string, code int) {
	m.httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// Registry returns the registry backing this Manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
