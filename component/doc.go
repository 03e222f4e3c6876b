// Package component defines the lifecycle interfaces shared by streamhub's
// long-running parts (HTTP server, stream hub, telemetry) and an ordered
// registry that starts them in registration order and stops them in reverse.
package component
