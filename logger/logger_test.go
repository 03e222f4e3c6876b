package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "streamhub", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "debug")

	l.Info("stream attached", StreamFields("k1", "id-1"))

	m := decodeLine(t, &buf)
	if m["message"] != "stream attached" {
		t.Errorf("unexpected message: %v", m["message"])
	}
	if m[FieldService] != "streamhub" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m[FieldStreamKey] != "k1" || m[FieldStreamID] != "id-1" {
		t.Errorf("stream fields missing: %v", m)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "invalid-level")
	l.Info("still logs at info")
	if !strings.Contains(buf.String(), "still logs at info") {
		t.Errorf("expected fallback to info level, got %q", buf.String())
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("sse")
	if l.service != "streamhub" {
		t.Errorf("service should be preserved, got %q", l.service)
	}

	l.Info("hello")
	if m := decodeLine(t, &buf); m[FieldComponent] != "sse" {
		t.Errorf("expected component 'sse', got %v", m[FieldComponent])
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info")

	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}

	l.WithContext(ctx).Info("with request")
	if m := decodeLine(t, &buf); m[FieldRequestID] != "req-42" {
		t.Errorf("expected request_id, got %v", m)
	}
}

func TestWithContext_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info")

	ctx := ContextWithTrace(context.Background(), "trace-1", "span-1")
	l.WithContext(ctx).Info("traced")
	m := decodeLine(t, &buf)
	if m[FieldTraceID] != "trace-1" || m[FieldSpanID] != "span-1" {
		t.Errorf("expected trace and span ids, got %v", m)
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").
		WithFields(map[string]interface{}{"total": 3}).
		WithError(errors.New("boom"))

	l.Error("failed")
	m := decodeLine(t, &buf)
	if m["total"] != float64(3) {
		t.Errorf("expected total=3, got %v", m["total"])
	}
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.WithComponent("x").Error("discarded")
}

func TestInit(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	cfg := &Config{ServiceName: "streamhub", Format: FormatJSON}
	Init(cfg)
	if cfg.Level != "info" {
		t.Errorf("expected defaults applied, got level %q", cfg.Level)
	}
	if GetGlobalLogger().service != "streamhub" {
		t.Errorf("expected global logger service streamhub, got %q", GetGlobalLogger().service)
	}
}

func TestSetGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "debug"))

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	WithComponent("registry").Info("c")

	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("expected 5 lines, got %d: %q", n, buf.String())
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{Level: "info", Format: "json", Output: "stdout"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	badLevel := &Config{Level: "loud", Format: "json", Output: "stdout"}
	if err := badLevel.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	badFormat := &Config{Level: "info", Format: "xml", Output: "stdout"}
	if err := badFormat.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}

	badOutput := &Config{Level: "info", Format: "json", Output: "file"}
	if err := badOutput.Validate(); err == nil {
		t.Error("expected error for invalid output")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "streamhub", &buf)
	l.Info("console line", Fields("stream_key", "abc"))

	out := buf.String()
	if !strings.Contains(out, "[STR][INF]") {
		t.Errorf("expected service and level tag, got %q", out)
	}
	if !strings.Contains(out, "stream_key:abc") {
		t.Errorf("expected formatted field, got %q", out)
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("write", errors.New("closed"))
	if m[FieldOperation] != "write" || m[FieldError] != "closed" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestMergeWithDuration(t *testing.T) {
	m := MergeWithDuration(nil, 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}
