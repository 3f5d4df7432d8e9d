package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware opens a server span per request and records its latency
func GinMiddleware() gin.HandlerFunc {
	duration, err := NewHistogram(MetricOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
	})
	if err != nil {
		duration = nil
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := StartSpan(ctx, fmt.Sprintf("%s %s", c.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(MethodAttr(c.Request.Method), RouteAttr(route)),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(StatusCodeAttr(status))
		if len(c.Errors) > 0 {
			RecordError(span, c.Errors.Last())
		}
		duration.Record(ctx, time.Since(start).Seconds(), MethodAttr(c.Request.Method), RouteAttr(route), StatusCodeAttr(status))
	}
}
