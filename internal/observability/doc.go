// Package observability groups the logging and tracing helpers shared by the
// digest pipeline, the feed watcher and the delivery channels.
//
// Subpackages:
//   - logging: slog handler construction and request id propagation
//   - tracing: OpenTelemetry tracer access, error recording and HTTP middleware
//
// Prometheus metrics are declared next to the code they measure.
package observability
