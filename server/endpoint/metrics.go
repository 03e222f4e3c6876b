package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamCounter reports the number of open streams; *sse.Registry satisfies it.
type StreamCounter interface {
	Size() int
}

// Metrics returns a handler that reports runtime memory, goroutine and
// stream counts as JSON. streams may be nil.
func Metrics(streams StreamCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		body := gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb":       m.Alloc / 1024 / 1024,
				"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
				"sys_mb":         m.Sys / 1024 / 1024,
				"gc_runs":        m.NumGC,
			},
		}
		if streams != nil {
			body["streams"] = streams.Size()
		}
		c.JSON(http.StatusOK, body)
	}
}
