// Package tracing provides OpenTelemetry tracing for HTTP requests and
// background jobs. Spans are created locally; export is left to whatever
// collector the deployment wires in via the global provider.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the records-atlas application.
var tracer = otel.Tracer("records-atlas")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
