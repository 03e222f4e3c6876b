package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	SSE           struct {
		KeepAlive string `mapstructure:"keepalive"`
		Origin    string `mapstructure:"cors_origin"`
	} `mapstructure:"sse"`
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "streamhub"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.Logging.ServiceName != "streamhub" {
		t.Errorf("expected logging service name to be propagated, got %q", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got level %q", cfg.Logging.Level)
	}

	prod := ServiceConfig{Name: "streamhub", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("expected debug=false for production")
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: streamhub
environment: staging
sse:
  keepalive: 15s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("streamhub", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "streamhub" || cfg.Environment != "staging" {
		t.Errorf("unexpected base config %+v", cfg.ServiceConfig)
	}
	if cfg.SSE.KeepAlive != "15s" {
		t.Errorf("expected keepalive 15s, got %q", cfg.SSE.KeepAlive)
	}
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("TESTHUB_SSE_CORS_ORIGIN", "https://example.com")

	var cfg testConfig
	err := LoadConfig("testhub", &cfg,
		WithFileSystem(&mockFS{}),
		WithEnvPrefix("TESTHUB"),
		WithDefaults(map[string]any{"name": "testhub", "sse.cors_origin": "", "sse.keepalive": "30s"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SSE.Origin != "https://example.com" {
		t.Errorf("expected env override, got %q", cfg.SSE.Origin)
	}
	if cfg.SSE.KeepAlive != "30s" {
		t.Errorf("expected default keepalive, got %q", cfg.SSE.KeepAlive)
	}
	if cfg.Name != "testhub" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected success with missing file, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var cfg testConfig
	if err := LoadConfig("streamhub", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestResolver_SearchesCmdDir(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/streamhub/config.yml": true,
		"./.env":                     true,
	}}
	r := &Resolver{FileSystem: fs}
	files := r.ResolveFiles("streamhub", LoaderConfig{})
	if files.ConfigFile != "./cmd/streamhub/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolver_ExplicitPathsWin(t *testing.T) {
	r := &Resolver{FileSystem: &mockFS{}}
	files := r.ResolveFiles("streamhub", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("explicit paths not kept: %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
