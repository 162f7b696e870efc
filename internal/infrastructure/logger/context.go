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
	agencyIDKey  contextKey = "agency_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithAgencyID stores the caller's agency id in ctx
func WithAgencyID(ctx context.Context, agencyID string) context.Context {
	return context.WithValue(ctx, agencyIDKey, agencyID)
}

// WithUserID stores the caller's user id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetRequestID returns the request id stored in ctx
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// GetAgencyID returns the agency id stored in ctx
func GetAgencyID(ctx context.Context) string {
	v, _ := ctx.Value(agencyIDKey).(string)
	return v
}

// GetUserID returns the user id stored in ctx
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// GetTraceID returns the trace id of the active span, or ""
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context logger enriched with trace, request, agency and
// user ids found in ctx.
//
//	logger.L(ctx).Info("agency created", zap.String("agency_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the ids found in ctx to l
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := GetAgencyID(ctx); v != "" {
		fields = append(fields, zap.String("agency_id", v))
	}
	if v := GetUserID(ctx); v != "" {
		fields = append(fields, zap.String("user_id", v))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
