package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of every span this module creates.
const TracerName = "digestbot"

// GetTracer returns the tracer of the current global provider. It is looked up on
// every call so that a provider installed after package init is honoured.
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
