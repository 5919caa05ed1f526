package otel

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

const zeroTraceID = "00000000000000000000000000000000"

// GetTraceID returns the trace id from the current span context, or the zero
// trace id when the context carries no valid span.
func GetTraceID(ctx context.Context) string {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return zeroTraceID
}
