package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/streamhub/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Health-check paths are silently skipped.
// Event-stream responses are logged as streams, with duration being the
// lifetime of the connection.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := map[string]interface{}{
				"method":               r.Method,
				"path":                 r.URL.Path,
				"status":               sw.status,
				"bytes":                sw.bytes,
				logger.FieldDuration:   time.Since(start).Milliseconds(),
				logger.FieldRemoteAddr: r.RemoteAddr,
			}
			if id := r.Header.Get(RequestIDHeader); id != "" {
				fields[logger.FieldRequestID] = id
			}
			msg := "Request completed"
			if strings.HasPrefix(sw.Header().Get("Content-Type"), "text/event-stream") {
				msg = "Stream completed"
			}
			logByStatus(log, msg, fields, sw.status)
		})
	}
}

var healthPaths = map[string]bool{
	"/health":             true,
	"/alive":              true,
	"/ready":              true,
	"/metrics":            true,
	"/metrics/prometheus": true,
}

func isHealthEndpoint(path string) bool {
	return healthPaths[path]
}

// logByStatus logs request fields at the level matching the HTTP status.
// If log is nil, the global logger is used.
func logByStatus(log *logger.Logger, msg string, fields map[string]interface{}, status int) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	switch {
	case status >= 500:
		log.Error(msg, fields)
	case status >= 400:
		log.Warn(msg, fields)
	default:
		log.Debug(msg, fields)
	}
}
