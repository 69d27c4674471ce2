package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	subjectKey   contextKey = "subject"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and a logger carrying it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	l = l.With(zap.String("request_id", requestID))
	return WithContext(ctx, l), l
}

// WithSubject stores the authenticated admin's subject claim
func WithSubject(ctx context.Context, subject string) context.Context {
	l := FromContext(ctx).With(zap.String("subject", subject))
	return WithContext(context.WithValue(ctx, subjectKey, subject), l)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetSubject retrieves the admin subject from context
func GetSubject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// GetTraceID extracts the trace ID from the context's span, or ""
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context's logger with trace_id and span_id attached when a
// valid span is active.
//
//	logger.L(ctx).Info("shipment created", zap.String("tracking_number", n))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
