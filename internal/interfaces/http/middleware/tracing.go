package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns otelgin followed by SpanEnricher. With tracing disabled the
// chain is empty.
func Tracing(serviceName string, enabled bool) gin.HandlersChain {
	if !enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(serviceName), SpanEnricher()}
}

// SpanEnricher tags the request span with the request id and marks 5xx
// responses as errors. It must run inside the otelgin span.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if id := GetRequestID(c); id != "" && span.IsRecording() {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
