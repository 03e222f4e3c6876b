package sse

import (
	"context"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/observability"
)

// ProduceFunc feeds a stream from its own goroutine. It should return when
// ctx ends or the stream closes; returning earlier ends the stream.
type ProduceFunc func(ctx context.Context, s Stream)

// Handler opens sessions for incoming requests and attaches them to a
// registry.
type Handler struct {
	registry *Registry
	opts     Options
	log      *logger.Logger
}

// NewHandler creates a Handler that registers sessions in reg.
func NewHandler(reg *Registry, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("sse")
		opts.Logger = log
	}
	return &Handler{registry: reg, opts: opts, log: log}
}

// Registry returns the registry sessions are attached to.
func (h *Handler) Registry() *Registry { return h.registry }

// Serve opens a session on w, attaches it under key, optionally starts
// produce, and blocks until the session closes. It must be called from the
// request's own handler goroutine.
//
// An error means the preamble could not be flushed; the response status may
// already have been written, so callers should only log it.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, key string, produce ProduceFunc) (CloseReason, error) {
	spanCtx, span := observability.StartSpan(r.Context(), observability.SpanStreamServe)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrStreamKey, key))

	s := NewSession(w, r, h.opts)
	span.SetAttributes(attribute.String(observability.AttrStreamID, s.ID()))
	if err := s.Open(); err != nil {
		observability.SetSpanError(spanCtx, err)
		h.log.Error("stream open failed", logger.Fields(
			logger.FieldStreamKey, key,
			logger.FieldError, err.Error(),
		))
		return s.CloseReason(), err
	}
	h.registry.Attach(key, s)

	ctx, cancel := context.WithCancel(spanCtx)
	var wg sync.WaitGroup
	if produce != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			produce(ctx, s)
			s.End()
		}()
	}

	reason := s.Wait(r.Context())
	cancel()
	wg.Wait()
	span.SetAttributes(attribute.String(observability.AttrCloseReason, string(reason)))

	h.log.Debug("stream finished", logger.Fields(
		logger.FieldStreamKey, key,
		logger.FieldStreamID, s.ID(),
		logger.FieldCloseReason, string(reason),
	))
	return reason, nil
}
