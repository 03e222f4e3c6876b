package sse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/logger"
)

// State is a session's position in its lifecycle.
type State int32

const (
	StateOpening State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// CloseReason records who ended a session.
type CloseReason string

const (
	ReasonClient     CloseReason = "client"
	ReasonProducer   CloseReason = "producer"
	ReasonReplaced   CloseReason = "replaced"
	ReasonShutdown   CloseReason = "shutdown"
	ReasonWriteError CloseReason = "write_error"
)

var (
	// ErrStreamClosed is returned by writes against a closed session.
	// Compare with errors.Is; copies carrying details still match.
	ErrStreamClosed = apperrors.StreamClosed("")
	// ErrStreamNotOpen is returned by writes before Open.
	ErrStreamNotOpen = apperrors.New(apperrors.ErrCodeConflict, "The stream has not been opened yet.", http.StatusConflict)
)

// Stream is the writable handle the registry stores. *Session implements it.
type Stream interface {
	// ID is unique per session and never reused.
	ID() string
	Write(payload string) error
	WriteField(field, value string) error
	WriteEvent(ev Event) error
	// End closes the stream from the producer side. No-op once closed.
	End()
	// Close ends the stream with an explicit reason. No-op once closed.
	Close(reason CloseReason)
	// OnClose registers fn to run once when the stream closes. If it has
	// already closed, fn runs immediately.
	OnClose(fn func(CloseReason))
	Done() <-chan struct{}
	Closed() bool
}

// Options configures a Session.
type Options struct {
	// KeepAlive writes a comment frame on this interval. Zero disables it.
	KeepAlive time.Duration
	// WriteTimeout bounds each frame write. A client that stops reading
	// fails the write and closes the stream with write_error. Zero means
	// no per-write deadline.
	WriteTimeout time.Duration
	// CloseGrace is how long Wait lets an in-flight write finish after the
	// stream closed before forcing it to fail. Defaults to one second.
	CloseGrace time.Duration
	// AllowOrigin sets Access-Control-Allow-Origin when non-empty.
	AllowOrigin string
	// Metrics may be nil.
	Metrics *Metrics
	// Logger defaults to the global logger tagged "sse".
	Logger *logger.Logger
}

// Session is the lifecycle wrapper around one client's streaming response.
// The owning handler must call Wait before returning, because the response
// writer is only valid for the duration of the handler.
type Session struct {
	id      string
	w       http.ResponseWriter
	rc      *http.ResponseController
	req     *http.Request
	opts    Options
	log     *logger.Logger
	metrics *Metrics

	mu     sync.Mutex // serializes response I/O; Close never takes it
	state  atomic.Int32
	opened atomic.Bool
	start  time.Time

	closeOnce sync.Once
	done      chan struct{}
	obsMu     sync.Mutex
	fired     bool
	reason    CloseReason
	observers []func(CloseReason)

	wg sync.WaitGroup
}

var _ Stream = (*Session)(nil)

// NewSession wraps w and r. Nothing is written until Open.
func NewSession(w http.ResponseWriter, r *http.Request, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("sse")
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		w:       w,
		rc:      http.NewResponseController(w),
		req:     r,
		opts:    opts,
		log:     log.WithFields(logger.Fields(logger.FieldStreamID, id)),
		metrics: opts.Metrics,
		done:    make(chan struct{}),
	}
}

// ID returns the session's generation ID.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Closed reports whether the session has reached StateClosed.
func (s *Session) Closed() bool { return s.State() == StateClosed }

// Done is closed once the session closes.
func (s *Session) Done() <-chan struct{} { return s.done }

// CloseReason returns why the session closed, or "" while it is open.
func (s *Session) CloseReason() CloseReason {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	return s.reason
}

// Open writes the stream preamble and flushes it, moving the session to
// StateStreaming. It also starts watching the request context so a client
// disconnect closes the session.
func (s *Session) Open() error {
	s.mu.Lock()
	switch s.State() {
	case StateStreaming:
		s.mu.Unlock()
		return nil
	case StateClosed:
		s.mu.Unlock()
		return ErrStreamClosed
	}

	// A server read timeout would otherwise cancel the request context
	// mid-stream, and a write timeout would cut the stream off.
	if err := s.rc.SetReadDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.Warn("could not clear read deadline", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := s.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.Warn("could not clear write deadline", logger.Fields(logger.FieldError, err.Error()))
	}

	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	if s.opts.AllowOrigin != "" {
		h.Set("Access-Control-Allow-Origin", s.opts.AllowOrigin)
	}
	s.w.WriteHeader(http.StatusOK)

	if err := s.rc.Flush(); err != nil {
		s.mu.Unlock()
		if s.markClosed() {
			s.finish(ReasonWriteError)
		}
		if errors.Is(err, http.ErrNotSupported) {
			return apperrors.StreamingUnsupported().WithCause(err)
		}
		return fmt.Errorf("sse: flush preamble: %w", err)
	}

	s.start = time.Now()
	s.opened.Store(true)
	if !s.state.CompareAndSwap(int32(StateOpening), int32(StateStreaming)) {
		// closed while the preamble was in flight
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.mu.Unlock()

	s.metrics.opened()
	s.log.Debug("stream opened", logger.Fields(logger.FieldRemoteAddr, s.req.RemoteAddr))

	s.wg.Add(1)
	go s.watch()
	if s.opts.KeepAlive > 0 {
		s.wg.Add(1)
		go s.keepAlive(s.opts.KeepAlive)
	}
	return nil
}

func (s *Session) watch() {
	defer s.wg.Done()
	select {
	case <-s.req.Context().Done():
		s.Close(ReasonClient)
	case <-s.done:
	}
}

func (s *Session) keepAlive(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	frame := Comment(KeepAliveComment)
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.writeFrame(FrameComment, frame); err != nil {
				return
			}
		}
	}
}

// Write appends one `data: <payload>\n\n` frame.
func (s *Session) Write(payload string) error {
	return s.writeFrame(FrameData, DataFrame(payload))
}

// WriteField appends one bare `<field>: <value>\n` line.
func (s *Session) WriteField(field, value string) error {
	frame, err := FieldLine(field, value)
	if err != nil {
		return err
	}
	return s.writeFrame(FrameField, frame)
}

// WriteEvent appends a full event record.
func (s *Session) WriteEvent(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return s.writeFrame(FrameEvent, ev.Bytes())
}

// WriteComment appends a comment frame.
func (s *Session) WriteComment(text string) error {
	return s.writeFrame(FrameComment, Comment(text))
}

func (s *Session) writeFrame(kind string, frame []byte) error {
	s.mu.Lock()
	switch s.State() {
	case StateOpening:
		s.mu.Unlock()
		return ErrStreamNotOpen
	case StateClosed:
		s.mu.Unlock()
		return ErrStreamClosed
	}

	timeout := s.opts.WriteTimeout
	if timeout > 0 {
		s.setWriteDeadline(time.Now().Add(timeout))
	}
	n, err := s.w.Write(frame)
	if err == nil {
		err = s.rc.Flush()
	}
	if err == nil && timeout > 0 {
		s.setWriteDeadline(time.Time{})
	}
	if err != nil {
		s.mu.Unlock()
		if !s.markClosed() {
			// Close forced the write to fail.
			return apperrors.StreamClosed("").WithCause(err)
		}
		s.metrics.writeError()
		s.log.Warn("stream write failed", logger.Fields("kind", kind, logger.FieldError, err.Error()))
		s.finish(ReasonWriteError)
		return fmt.Errorf("sse: write %s frame: %w", kind, err)
	}
	s.mu.Unlock()

	s.metrics.frame(kind, n)
	return nil
}

// End closes the session from the producer side.
func (s *Session) End() { s.Close(ReasonProducer) }

// Close moves the session to StateClosed and fires the close observers.
// Only the first call has any effect. Close does not wait for a write in
// flight; Wait deals with that on the handler goroutine.
func (s *Session) Close(reason CloseReason) {
	if s.markClosed() {
		s.finish(reason)
	}
}

// markClosed reports whether this call moved the session to StateClosed.
func (s *Session) markClosed() bool {
	for {
		cur := s.state.Load()
		if State(cur) == StateClosed {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(StateClosed)) {
			return true
		}
	}
}

func (s *Session) setWriteDeadline(t time.Time) {
	if err := s.rc.SetWriteDeadline(t); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.Debug("could not set write deadline", logger.Fields(logger.FieldError, err.Error()))
	}
}

// drain waits for a write in flight to return. Past the grace period the
// write is failed by moving its deadline into the past.
func (s *Session) drain() {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return
	}
	grace := s.opts.CloseGrace
	if grace <= 0 {
		grace = time.Second
	}
	locked := make(chan struct{})
	go func() {
		s.mu.Lock()
		close(locked)
	}()
	select {
	case <-locked:
	case <-time.After(grace):
		s.log.Debug("forcing stalled write to fail")
		s.setWriteDeadline(time.Now())
		<-locked
	}
	s.mu.Unlock()
}

func (s *Session) finish(reason CloseReason) {
	s.closeOnce.Do(func() {
		s.obsMu.Lock()
		s.fired = true
		s.reason = reason
		observers := s.observers
		s.observers = nil
		close(s.done)
		s.obsMu.Unlock()

		wasOpen := s.opened.Load()
		s.metrics.closed(reason, wasOpen)
		fields := logger.Fields(logger.FieldCloseReason, string(reason))
		if wasOpen {
			fields = logger.MergeWithDuration(fields, time.Since(s.start))
		}
		s.log.Debug("stream closed", fields)

		for _, fn := range observers {
			fn(reason)
		}
	})
}

// OnClose registers fn to run once when the session closes. Observers
// registered after close run immediately on the caller's goroutine.
func (s *Session) OnClose(fn func(CloseReason)) {
	s.obsMu.Lock()
	if s.fired {
		reason := s.reason
		s.obsMu.Unlock()
		fn(reason)
		return
	}
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

// Wait blocks until the session closes or ctx ends. If ctx ends first the
// session is closed, with reason client when the request itself is gone and
// shutdown otherwise. Wait returns once no write is in flight and the
// session's background goroutines have exited.
func (s *Session) Wait(ctx context.Context) CloseReason {
	select {
	case <-s.done:
	case <-ctx.Done():
		reason := ReasonShutdown
		if s.req.Context().Err() != nil {
			reason = ReasonClient
		}
		s.Close(reason)
	}
	s.drain()
	s.wg.Wait()
	return s.CloseReason()
}
