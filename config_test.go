package streamhub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/streamhub/config"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("expected name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.Environment)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.SSE.KeepAlive != 15*time.Second {
		t.Errorf("expected 15s keep-alive, got %s", cfg.SSE.KeepAlive)
	}
	if cfg.SSE.FeedInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms feed interval, got %s", cfg.SSE.FeedInterval)
	}
	if cfg.SSE.WriteTimeout != 10*time.Second {
		t.Errorf("expected 10s write timeout, got %s", cfg.SSE.WriteTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative keepalive", func(c *Config) { c.SSE.KeepAlive = -time.Second }, "sse.keep_alive"},
		{"negative write timeout", func(c *Config) { c.SSE.WriteTimeout = -time.Second }, "sse.write_timeout"},
		{"bad environment", func(c *Config) { c.Environment = "moon" }, "config.environment"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"auth without secret", func(c *Config) { c.Auth.Enabled = true }, "auth.jwt"},
		{"bad sample rate", func(c *Config) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
		{"missing static dir", func(c *Config) { c.StaticDir = filepath.Join(t.TempDir(), "nope") }, "static_dir"},
		{"static dir is a file", func(c *Config) { c.StaticDir = file }, "not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_FeedIntervalMustBePositive(t *testing.T) {
	cfg := SSEConfig{KeepAlive: time.Second, FeedInterval: -time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative feed interval")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
name: hub-test
environment: staging
server:
  port: 8081
sse:
  keep_alive: 5s
  cors_origin: "https://example.com"
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STREAMHUB_SSE_FEED_INTERVAL", "100ms")
	t.Setenv("STREAMHUB_SERVER_RATE_LIMIT", "30")

	cfg, err := Load(config.WithConfigFile(path), config.WithEnvFile(filepath.Join(dir, ".env")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Name != "hub-test" || cfg.Environment != "staging" {
		t.Errorf("unexpected service section: %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.SSE.KeepAlive != 5*time.Second {
		t.Errorf("expected 5s keep-alive, got %s", cfg.SSE.KeepAlive)
	}
	if cfg.SSE.CORSOrigin != "https://example.com" {
		t.Errorf("unexpected cors origin %q", cfg.SSE.CORSOrigin)
	}
	if cfg.SSE.FeedInterval != 100*time.Millisecond {
		t.Errorf("expected env override 100ms, got %s", cfg.SSE.FeedInterval)
	}
	if cfg.Server.RateLimit != 30 {
		t.Errorf("expected env override rate limit 30, got %d", cfg.Server.RateLimit)
	}
}
