package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/component"
	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer() *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return New(cfg, logger.NewNop())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Host != "0.0.0.0" || cfg.Port != 3000 {
		t.Errorf("unexpected address defaults %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("write timeout must stay disabled for streams, got %d", cfg.WriteTimeout)
	}
	if cfg.MaxBodySize != "1MB" {
		t.Errorf("expected 1MB body limit, got %q", cfg.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Port = -1 }, "server.port"},
		{"read timeout", func(c *Config) { c.ReadTimeout = -1 }, "server.read_timeout"},
		{"write timeout", func(c *Config) { c.WriteTimeout = -1 }, "server.write_timeout"},
		{"idle timeout", func(c *Config) { c.IdleTimeout = -1 }, "server.idle_timeout"},
		{"body size", func(c *Config) { c.MaxBodySize = "lots" }, "server.max_body_size"},
		{"rate limit", func(c *Config) { c.RateLimit = -5 }, "server.rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestServer_StartStop(t *testing.T) {
	s := testServer()
	s.GinEngine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	s.ApplyMiddleware()

	comp := NewComponent(s)
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("expected pong, got %q", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected middleware to set X-Request-Id")
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, err := http.Get("http://" + s.Addr() + "/ping"); err == nil {
		t.Error("expected connection error after stop")
	}
}

func TestServer_Handle(t *testing.T) {
	s := testServer()
	s.Handle("/raw/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "raw")
	}))
	s.ApplyMiddleware()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw/x", http.NoBody))
	if rec.Body.String() != "raw" {
		t.Errorf("expected raw handler, got %q", rec.Body.String())
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperrors.StreamNotFound("room"), http.StatusNotFound, "STREAM_NOT_FOUND"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			RespondWithError(c, tt.err)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if string(body.Error.Code) != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}

func TestRoutes_SortsSystemLast(t *testing.T) {
	s := testServer()
	s.RegisterDefaultEndpoints("streamhub", "test", nil, nil)
	s.GinEngine().DELETE("/streams/:key", func(*gin.Context) {})
	s.GinEngine().GET("/streams/:key", func(*gin.Context) {})

	routes := NewComponent(s).Routes()
	if routes[0].Method != "GET" || routes[0].Path != "/streams/:key" {
		t.Errorf("expected GET /streams/:key first, got %s %s", routes[0].Method, routes[0].Path)
	}
	if routes[1].Method != "DELETE" {
		t.Errorf("expected DELETE second, got %s", routes[1].Method)
	}
	last := routes[len(routes)-1]
	if !strings.HasSuffix(last.Handler, "(system)") {
		t.Errorf("expected system routes last, got %+v", last)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/streamhub/routes.(*Streams).Publish-fm": "Streams.Publish",
		"github.com/kbukum/streamhub/server/endpoint.Health.func1": "health",
		"github.com/kbukum/streamhub/routes.Hello":                 "Hello",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
