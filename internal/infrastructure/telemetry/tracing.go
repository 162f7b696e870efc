package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application spans
const TracerName = "lumio-backend"

// StartServiceSpan starts an internal span named "<service>.<method>".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "launchpad", "agency")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("service.name", service),
		attribute.String("service.method", method),
	)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span failed with err; nil is ignored
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err (if any) and ends the span. Intended for defer with a
// named error result.
func End(span trace.Span, err *error) {
	if err != nil {
		RecordError(span, *err)
	}
	span.End()
}
