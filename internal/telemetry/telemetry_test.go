package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fsgraph/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestObserveCrawl(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewNavigationMetrics(reg)

	m.ObserveCrawl(models.OpExpand, StatusSuccess, 20*time.Millisecond, 7, []models.Skip{
		{Path: "/a", Reason: models.SkipPermission},
		{Path: "/b", Reason: models.SkipPermission},
		{Path: "/c", Reason: models.SkipCycle},
	})
	m.ObserveCrawl(models.OpExpand, StatusAccessError, time.Millisecond, 0, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("expand", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("expand", StatusAccessError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkipsTotal.WithLabelValues("permission")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkipsTotal.WithLabelValues("cycle")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CrawlNodes))

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConnections))

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "fsgraph_crawl_duration_seconds")
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *NavigationMetrics
	assert.NotPanics(t, func() {
		m.ObserveCrawl(models.OpLoadRoot, StatusSuccess, time.Second, 1, nil)
		m.ConnectionOpened()
		m.ConnectionClosed()
	})
}

func TestInitTracing(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitTracing(ctx, TracingConfig{Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))

	_, err = InitTracing(ctx, TracingConfig{Exporter: "zipkin"})
	assert.ErrorIs(t, err, ErrUnknownExporter)

	var buf bytes.Buffer
	shutdown, err = InitTracing(ctx, TracingConfig{ServiceName: "fsgraph-test", Exporter: "stdout", Writer: &buf})
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(ctx, "navigation.load")
	span.End()
	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "navigation.load")
}
