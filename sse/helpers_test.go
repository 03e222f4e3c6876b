package sse

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// syncRecorder is a ResponseRecorder that is safe to read while a session
// goroutine writes to it.
type syncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{rec: httptest.NewRecorder()}
}

func (s *syncRecorder) Header() http.Header { return s.rec.Header() }

func (s *syncRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

func (s *syncRecorder) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(p)
}

func (s *syncRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Flush()
}

func (s *syncRecorder) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}

func (s *syncRecorder) Code() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Code
}

var errBrokenPipe = errors.New("broken pipe")

// failingWriter accepts okWrites writes and fails every one after that.
type failingWriter struct {
	header   http.Header
	okWrites int
	buf      bytes.Buffer
}

func (f *failingWriter) Header() http.Header {
	if f.header == nil {
		f.header = make(http.Header)
	}
	return f.header
}

func (f *failingWriter) WriteHeader(int) {}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.okWrites <= 0 {
		return 0, errBrokenPipe
	}
	f.okWrites--
	return f.buf.Write(p)
}

func (f *failingWriter) Flush() {}

// noFlushWriter cannot stream.
type noFlushWriter struct {
	header http.Header
}

func (n *noFlushWriter) Header() http.Header {
	if n.header == nil {
		n.header = make(http.Header)
	}
	return n.header
}
func (n *noFlushWriter) WriteHeader(int)             {}
func (n *noFlushWriter) Write(p []byte) (int, error) { return len(p), nil }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
