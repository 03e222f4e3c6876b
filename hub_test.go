package streamhub

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/streamhub/bootstrap"
	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/testutil"
)

func newTestHub(t *testing.T, mutate func(*Config)) (*bootstrap.App[*Config], *Hub, *httptest.Server) {
	t.Helper()
	cfg := &Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.SSE.FeedInterval = 10 * time.Millisecond
	if mutate != nil {
		mutate(cfg)
	}

	app, err := bootstrap.NewApp(cfg,
		bootstrap.WithLogger(logger.NewNop()),
		bootstrap.WithSummaryOutput(io.Discard),
	)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	hub, err := Wire(app)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	ts := httptest.NewServer(hub.Server.Handler())
	t.Cleanup(ts.Close)
	return app, hub, ts
}

func TestWire_RegistersComponentsInOrder(t *testing.T) {
	app, _, _ := newTestHub(t, nil)

	var names []string
	for _, c := range app.Components.All() {
		names = append(names, c.Name())
	}
	want := "telemetry,sse,http-server"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("expected components %s, got %s", want, got)
	}
}

func TestWire_ServesRoutes(t *testing.T) {
	_, _, ts := newTestHub(t, nil)

	resp, err := http.Get(ts.URL + "/hello")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"Hello":"World"}` {
		t.Errorf("unexpected /hello body %q", body)
	}

	resp, err = http.Get(ts.URL + "/metrics/prometheus")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, name := range []string{"streamhub_registry_entries", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in prometheus output", name)
		}
	}
}

func TestWire_FeedStreams(t *testing.T) {
	_, hub, ts := newTestHub(t, nil)

	resp, err := http.Get(ts.URL + "/sse")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", ct)
	}
	key := resp.Header.Get("X-Stream-Key")
	if key == "" {
		t.Fatal("expected X-Stream-Key header")
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("reading first frame: %v", err)
	}
	if !strings.HasPrefix(line, "data: [[") {
		t.Errorf("expected dataset frame, got %q", line)
	}
	if _, ok := hub.Streams.Registry().Get(key); !ok {
		t.Errorf("expected stream %q to be registered", key)
	}
}

func TestWire_ShutdownEndsStreams(t *testing.T) {
	app, hub, ts := newTestHub(t, nil)

	resp, err := http.Get(ts.URL + "/streams/room")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	testutil.Eventually(t, time.Second, func() bool {
		return hub.Streams.Registry().Size() == 1
	}, "stream never registered")

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(resp.Body)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean end of stream, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not ended by shutdown")
	}
	if n := hub.Streams.Registry().Size(); n != 0 {
		t.Errorf("expected empty registry after shutdown, got %d", n)
	}
}

func TestWire_AuthGuardsWrites(t *testing.T) {
	_, _, ts := newTestHub(t, func(c *Config) {
		c.Auth.Enabled = true
		c.Auth.JWT.Secret = strings.Repeat("s", 32)
	})

	resp, err := http.Post(ts.URL+"/streams/room/events", "application/json", strings.NewReader(`{"data":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}
