package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	tel, err := Init(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, tel.tracer)
	assert.NotNil(t, tel.meter)

	cfg := &Config{Enabled: false, ServiceName: "test-service"}
	tel, err = Init(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, tel.config)
	assert.Same(t, tel, Get())
	assert.NoError(t, Shutdown(ctx))
}

func TestStartSpan_Disabled(t *testing.T) {
	_, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "test-service"})
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.Equal(t, "", GetTraceID(ctx), "no-op provider never samples")
}

func TestRecordError(t *testing.T) {
	span := trace.SpanFromContext(context.Background())
	assert.NotPanics(t, func() {
		RecordError(span, nil)
		RecordError(span, errors.New("boom"))
	})
}

func TestMetrics_Disabled(t *testing.T) {
	_, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "test-service"})
	require.NoError(t, err)
	ctx := context.Background()

	counter, err := NewCounter(MetricOpts{Name: "test_counter", Description: "A test counter", Unit: "1"})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		counter.Inc(ctx, CacheKindAttr("event"), CacheResultAttr("hit"))
		counter.Add(ctx, 3)
	})

	histogram, err := NewHistogram(MetricOpts{Name: "test_histogram", Unit: "s"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { histogram.Record(ctx, 0.25) })

	var nilCounter *Counter
	var nilHistogram *Histogram
	assert.NotPanics(t, func() {
		nilCounter.Inc(ctx)
		nilHistogram.Record(ctx, 1)
		MustCounter(MetricOpts{Name: "must_counter"}).Inc(ctx)
	})
}

func TestGinMiddleware(t *testing.T) {
	_, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "test-service"})
	require.NoError(t, err)

	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/123", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
