package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/server"
)

// NoRoute serves files from dir for unmatched GET and HEAD requests. Any
// other unmatched request, or any request when dir is empty, gets a JSON
// 404.
func NoRoute(dir string) gin.HandlerFunc {
	var files http.Handler
	if dir != "" {
		files = http.FileServer(http.Dir(dir))
	}
	return func(c *gin.Context) {
		method := c.Request.Method
		if files != nil && (method == http.MethodGet || method == http.MethodHead) {
			files.ServeHTTP(c.Writer, c.Request)
			return
		}
		server.RespondWithError(c, apperrors.NotFound("route", c.Request.URL.Path))
	}
}
