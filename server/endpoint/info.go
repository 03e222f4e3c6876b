package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/version"
)

var startTime = time.Now()

func uptime() time.Duration {
	return time.Since(startTime).Truncate(time.Second)
}

// Info returns a handler that reports the service identity, build
// information and uptime.
func Info(serviceName, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     serviceName,
			"environment": environment,
			"build":       version.GetVersionInfo(),
			"uptime":      uptime().String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
