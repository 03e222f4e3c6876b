package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/auth"
	"github.com/kbukum/streamhub/observability"
	"github.com/kbukum/streamhub/server/middleware"
)

// Options configures Register.
type Options struct {
	// Validator guards the write routes. Nil leaves them open.
	Validator auth.TokenValidator
	// RateLimit caps write requests per minute per client. Zero disables it.
	RateLimit int
	// StaticDir is served for unmatched GET requests when set.
	StaticDir string
	// Metrics records request metrics for every route when set.
	Metrics *observability.Metrics
}

// Register mounts the stream routes on engine.
func Register(engine *gin.Engine, s *Streams, opts Options) {
	if opts.Metrics != nil {
		engine.Use(middleware.Metrics(opts.Metrics))
	}

	engine.GET("/hello", Hello)
	engine.GET("/sse", s.Feed)
	engine.GET("/streams", s.List)
	engine.GET("/streams/:key", s.Open)

	var guards []gin.HandlerFunc
	if opts.RateLimit > 0 {
		guards = append(guards, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: opts.RateLimit,
		}))
	}
	if opts.Validator != nil {
		guards = append(guards, middleware.Auth(opts.Validator))
	}
	writes := engine.Group("/", guards...)
	writes.POST("/streams/:key/events", s.Publish)
	writes.DELETE("/streams/:key", s.End)
	writes.POST("/broadcast", s.Broadcast)

	engine.NoRoute(NoRoute(opts.StaticDir))
}
