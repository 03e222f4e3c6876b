package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/observability"
)

// Metrics returns a Gin middleware that records request count, duration and
// in-flight requests on m. The route label is the Gin route template, so
// /streams/:key stays one series regardless of the key.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.RecordRequestEnd(ctx, c.Request.Method, route, status, time.Since(start))
		if status >= 500 {
			m.RecordError(ctx, "HTTP_5XX", "http")
		}
	}
}
