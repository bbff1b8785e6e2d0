package telemetry

import (
	"net/http"
	"time"

	"fsgraph/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fsgraph"

// Request status labels
const (
	StatusSuccess     = "success"
	StatusAccessError = "access_error"
	StatusTimeout     = "timeout"
	StatusInvalid     = "invalid"
)

// NavigationMetrics holds the Prometheus collectors for navigation requests.
// A nil *NavigationMetrics is valid and records nothing.
type NavigationMetrics struct {
	// RequestsTotal counts navigation operations by operation and status.
	RequestsTotal *prometheus.CounterVec

	// CrawlDurationSeconds measures wall-clock time of each crawl.
	CrawlDurationSeconds *prometheus.HistogramVec

	// CrawlNodes measures the number of nodes returned per crawl.
	CrawlNodes *prometheus.HistogramVec

	// SkipsTotal counts entries left out of crawls, by reason.
	SkipsTotal *prometheus.CounterVec

	// ActiveConnections tracks open WebSocket navigation sessions.
	ActiveConnections prometheus.Gauge
}

// NewNavigationMetrics creates and registers the collectors with reg
func NewNavigationMetrics(reg prometheus.Registerer) *NavigationMetrics {
	factory := promauto.With(reg)
	return &NavigationMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "navigation",
				Name:      "requests_total",
				Help:      "Navigation operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		CrawlDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "crawl",
				Name:      "duration_seconds",
				Help:      "Duration of filesystem crawls",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"operation"},
		),
		CrawlNodes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "crawl",
				Name:      "nodes",
				Help:      "Number of graph nodes returned per crawl",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"operation"},
		),
		SkipsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "crawl",
				Name:      "skips_total",
				Help:      "Entries left out of crawls, by reason",
			},
			[]string{"reason"},
		),
		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "websocket",
				Name:      "active_connections",
				Help:      "Open WebSocket navigation sessions",
			},
		),
	}
}

// ObserveCrawl records one navigation operation
func (m *NavigationMetrics) ObserveCrawl(operation models.Operation, status string, elapsed time.Duration, nodes int, skips []models.Skip) {
	if m == nil {
		return
	}
	op := string(operation)
	m.RequestsTotal.WithLabelValues(op, status).Inc()
	m.CrawlDurationSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
	if status == StatusSuccess {
		m.CrawlNodes.WithLabelValues(op).Observe(float64(nodes))
	}
	for _, s := range skips {
		m.SkipsTotal.WithLabelValues(string(s.Reason)).Inc()
	}
}

// ConnectionOpened increments the WebSocket session gauge
func (m *NavigationMetrics) ConnectionOpened() {
	if m != nil {
		m.ActiveConnections.Inc()
	}
}

// ConnectionClosed decrements the WebSocket session gauge
func (m *NavigationMetrics) ConnectionClosed() {
	if m != nil {
		m.ActiveConnections.Dec()
	}
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
