package sse

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/streamhub/logger"
)

// dialStalled opens a stream over raw TCP and reads only the status line,
// leaving everything after it unread.
func dialStalled(t *testing.T, rawURL string) net.Conn {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	conn, err := net.Dial("tcp", u.Host)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	fmt.Fprintf(conn, "GET / HTTP/1.1\r\nHost: %s\r\nAccept: text/event-stream\r\n\r\n", u.Host)
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if !strings.HasPrefix(line, "HTTP/1.1 200") {
		t.Fatalf("unexpected status line %q", line)
	}
	return conn
}

// fillUntilBlocked writes 64KiB frames to s from a goroutine until a write
// stops returning. The channel receives the error that ends the loop.
func fillUntilBlocked(t *testing.T, s Stream) <-chan error {
	t.Helper()
	var writes atomic.Int64
	errc := make(chan error, 1)
	payload := strings.Repeat("x", 64<<10)
	go func() {
		for {
			if err := s.Write(payload); err != nil {
				errc <- err
				return
			}
			writes.Add(1)
		}
	}()

	last := int64(-1)
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(200 * time.Millisecond)
		n := writes.Load()
		if n == last {
			return errc
		}
		last = n
	}
	t.Fatal("writes never stalled")
	return nil
}

func newStallServer(t *testing.T, reg *Registry, opts Options) (*httptest.Server, <-chan CloseReason) {
	t.Helper()
	opts.Logger = logger.NewNop()
	h := NewHandler(reg, opts)
	reasons := make(chan CloseReason, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reason, _ := h.Serve(w, r, "slow", nil)
		reasons <- reason
	}))
	t.Cleanup(srv.Close)
	return srv, reasons
}

func TestSession_CloseDoesNotWaitForStalledClient(t *testing.T) {
	tests := []struct {
		name   string
		close  func(reg *Registry, s Stream)
		reason CloseReason
	}{
		{"end", func(_ *Registry, s Stream) { s.End() }, ReasonProducer},
		{"close all", func(reg *Registry, _ Stream) { reg.CloseAll() }, ReasonShutdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			srv, reasons := newStallServer(t, reg, Options{CloseGrace: 100 * time.Millisecond})
			dialStalled(t, srv.URL)
			waitFor(t, "stream registered", func() bool { _, ok := reg.Get("slow"); return ok })
			s, _ := reg.Get("slow")

			errc := fillUntilBlocked(t, s)

			closed := make(chan struct{})
			go func() {
				tt.close(reg, s)
				close(closed)
			}()
			select {
			case <-closed:
			case <-time.After(2 * time.Second):
				t.Fatal("close blocked behind a stalled write")
			}
			if reg.Size() != 0 {
				t.Errorf("expected registry empty, got %d", reg.Size())
			}

			select {
			case r := <-reasons:
				if r != tt.reason {
					t.Errorf("expected %s reason, got %q", tt.reason, r)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("handler did not return")
			}
			select {
			case err := <-errc:
				if !errors.Is(err, ErrStreamClosed) {
					t.Errorf("expected stalled write to fail as closed, got %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("stalled write never returned")
			}
		})
	}
}

func TestSession_WriteTimeoutDropsStalledClient(t *testing.T) {
	reg := NewRegistry()
	srv, reasons := newStallServer(t, reg, Options{WriteTimeout: 200 * time.Millisecond})
	dialStalled(t, srv.URL)
	waitFor(t, "stream registered", func() bool { _, ok := reg.Get("slow"); return ok })
	s, _ := reg.Get("slow")

	payload := strings.Repeat("x", 64<<10)
	errc := make(chan error, 1)
	go func() {
		for {
			if err := s.Write(payload); err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ErrStreamClosed) {
			t.Errorf("expected a transport error, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("write to a stalled client never timed out")
	}
	select {
	case r := <-reasons:
		if r != ReasonWriteError {
			t.Errorf("expected write_error, got %q", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return")
	}
	if reg.Size() != 0 {
		t.Errorf("expected registry empty, got %d", reg.Size())
	}
}

func TestRegistry_BroadcastSurvivesStalledClient(t *testing.T) {
	reg := NewRegistry()
	srv, _ := newStallServer(t, reg, Options{WriteTimeout: 200 * time.Millisecond})
	dialStalled(t, srv.URL)
	waitFor(t, "stream registered", func() bool { _, ok := reg.Get("slow"); return ok })
	s, _ := reg.Get("slow")
	fillUntilBlocked(t, s)

	healthy := newFakeStream()
	reg.Attach("steady", healthy)

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := reg.BroadcastToPattern("*", Event{Event: "msg", Data: "hi"})
		done <- result{n, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("broadcast: %v", res.err)
		}
		if res.n != 1 {
			t.Errorf("expected 1 delivery, got %d", res.n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	if frames := healthy.Frames(); len(frames) != 1 {
		t.Errorf("expected the healthy stream to receive the event, got %q", frames)
	}
}
