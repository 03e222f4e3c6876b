// Package server provides the HTTP server: Gin behind an h2c handler, a
// net/http middleware stack, system endpoints, and response helpers.
//
// # Middleware
//
// Applied at the server level by ApplyMiddleware (server/middleware):
//
//   - Recovery: panic recovery that leaves already-started streams alone
//   - RequestID: X-Request-Id generation and context propagation
//   - CORS: cross-origin headers and preflight answers
//   - BodySizeLimit: request body limits
//   - RequestLogger: per-request logging, streams logged on completion
//
// Gin middleware applied per route group: Auth (Bearer JWT), RateLimit and
// Metrics (OpenTelemetry request instruments).
//
// # Endpoints
//
// Registered by RegisterDefaultEndpoints and RegisterPrometheus
// (server/endpoint): /health, /ready, /alive, /info, /version, /metrics and
// /metrics/prometheus.
package server
