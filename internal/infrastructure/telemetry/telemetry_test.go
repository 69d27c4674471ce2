package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, config.TelemetryConfig{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestStartSpan(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "document.render", attribute.String("kind", "waybill"))
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, errors.New("chrome unavailable"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "document.render", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("kind", "waybill"))
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestRecordError_Nil(t *testing.T) {
	RecordError(nil, errors.New("x"))
	_, span := StartSpan(context.Background(), "noop")
	RecordError(span, nil)
	span.End()
}
