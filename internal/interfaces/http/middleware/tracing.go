package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps client supplied request ids
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig wraps otelgin; spans are named after the matched route
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector adds request_id, user_id and agency_id to the
// current span once the rest of the chain, including route guards, has run.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := GetJWTUserID(c); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
	if id := GetJWTAgencyID(c); id != "" {
		span.SetAttributes(attribute.String("agency_id", id))
	}
	if id := c.Param("subAccountId"); id != "" {
		span.SetAttributes(attribute.String("sub_account_id", id))
	}
}

// SpanErrorMarker marks the span as failed for 5xx responses and records the
// status of every 4xx.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
