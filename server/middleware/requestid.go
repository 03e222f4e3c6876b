package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/streamhub/logger"
)

// RequestIDHeader carries the request ID on both the request and the response.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLen bounds client-supplied IDs; longer ones are replaced.
const maxRequestIDLen = 128

// RequestID ensures every request carries an X-Request-Id. A client-supplied
// ID is kept; otherwise a UUID is generated. The ID is echoed on the response
// and stored in the request context for logger.WithContext.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.New().String()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := logger.ContextWithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
