package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/component"
	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/server"
	"github.com/kbukum/streamhub/server/middleware"
	"github.com/kbukum/streamhub/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Component is a server bound to an httptest.Server on a random port.
type Component struct {
	srv   *server.Server
	ts    *httptest.Server
	log   *logger.Logger
	extra []middleware.Middleware
	mu    sync.RWMutex
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// NewComponent creates a test server. extra middleware is applied after
// the standard stack on every Start and Reset.
func NewComponent(extra ...middleware.Middleware) *Component {
	log := logger.NewNop()
	return &Component{
		srv:   server.New(testConfig(), log),
		log:   log,
		extra: extra,
	}
}

func testConfig() server.Config {
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	return cfg
}

// GinEngine returns the Gin engine for registering routes.
func (c *Component) GinEngine() *gin.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv.GinEngine()
}

// Server returns the underlying server.
func (c *Component) Server() *server.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv
}

// BaseURL returns the test server URL, or "" before Start.
func (c *Component) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return ""
	}
	return c.ts.URL
}

// Client returns an HTTP client for the test server.
func (c *Component) Client() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return http.DefaultClient
	}
	return c.ts.Client()
}

func (c *Component) Name() string { return "server-test" }

func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ts != nil {
		return errors.New("component already started")
	}
	c.srv.ApplyMiddleware(c.extra...)
	c.ts = httptest.NewServer(c.srv.Handler())
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ts == nil {
		return nil
	}
	c.ts.CloseClientConnections()
	c.ts.Close()
	c.ts = nil
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset replaces the server with a fresh one, dropping every route.
func (c *Component) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ts == nil {
		return errors.New("component not started")
	}
	c.ts.CloseClientConnections()
	c.ts.Close()

	c.srv = server.New(testConfig(), c.log)
	c.srv.ApplyMiddleware(c.extra...)
	c.ts = httptest.NewServer(c.srv.Handler())
	return nil
}
