// Package errors provides the structured error type used across streamhub.
// Errors carry a machine-readable code, an HTTP status mapping, and a
// retryable flag, and render as an RFC 7807 style envelope.
package errors
