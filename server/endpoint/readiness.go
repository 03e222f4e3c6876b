package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/component"
)

// Readiness returns a handler for readiness probes. The service is not ready
// while any component reports unhealthy; degraded components (an SSE hub
// that is draining, for example) still accept traffic.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK
		var failing []string

		if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				if ch.Status == component.StatusUnhealthy {
					failing = append(failing, ch.Name)
				}
			}
		}
		if len(failing) > 0 {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if len(failing) > 0 {
			body["failing"] = failing
		}
		c.JSON(httpStatus, body)
	}
}
