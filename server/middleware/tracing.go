package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/observability"
)

// Tracing starts a server span per request, continuing any trace carried in
// the incoming headers. Trace and span IDs are stored in the request context
// so logger.WithContext picks them up. Health-check paths are not traced.
//
// It must run after RequestID to record the request ID attribute.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			if id := logger.RequestIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String(observability.AttrRequestID, id))
			}
			if sc := span.SpanContext(); sc.IsValid() {
				ctx = logger.ContextWithTrace(ctx, sc.TraceID().String(), sc.SpanID().String())
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", sw.status))
			if sw.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
		})
	}
}
