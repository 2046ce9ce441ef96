// Package tracing wires OpenTelemetry spans into the digest pipeline and the
// worker's operational HTTP endpoints.
//
// Spans are created through the global tracer provider. Without an SDK provider
// installed the tracer is a no-op, so tracing costs nothing until a host sets one.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "digest.YouTube")
//	defer span.End()
package tracing
