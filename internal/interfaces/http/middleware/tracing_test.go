package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func tracedRouter(enabled bool, status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing("parcel-test", enabled)...)
	router.GET("/shipments/:id", func(c *gin.Context) { c.Status(status) })
	return router
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	w := httptest.NewRecorder()
	tracedRouter(false, http.StatusOK).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shipments/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_Enabled(t *testing.T) {
	sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/shipments/1", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	tracedRouter(true, http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "/shipments/:id", spans[0].Name())
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-1", v.AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	sr := setupTestTracer(t)

	tracedRouter(true, http.StatusServiceUnavailable).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shipments/1", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
