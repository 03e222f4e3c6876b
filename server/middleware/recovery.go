package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/logger"
)

// Recovery returns middleware that recovers from panics and logs the stack.
// If the handler already started a response (an open event stream, for
// example) only the log line is written; the connection is left to close.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Panic recovered", map[string]interface{}{
					"error":                rec,
					"stack":                string(debug.Stack()),
					"path":                 r.URL.Path,
					"method":               r.Method,
					logger.FieldRequestID:  r.Header.Get(RequestIDHeader),
					logger.FieldRemoteAddr: r.RemoteAddr,
				})
				if sw.wroteHeader {
					return
				}
				appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
				sw.Header().Set("Content-Type", "application/json; charset=utf-8")
				sw.WriteHeader(appErr.HTTPStatus)
				_ = json.NewEncoder(sw).Encode(appErr.ToResponse())
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
