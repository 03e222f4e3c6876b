// Package observability wires OpenTelemetry tracing and metrics for
// streamhub.
//
// When enabled, the Component installs OTLP/HTTP trace and metric
// exporters as the global providers and shuts them down on Stop. When
// disabled, the global no-op providers stay in place, so StartSpan and
// the Metrics instruments are always safe to call.
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanFeedRun)
//	defer span.End()
package observability
