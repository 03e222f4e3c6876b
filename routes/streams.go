package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/streamhub/auth"
	"github.com/kbukum/streamhub/auth/authctx"
	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/feed"
	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/observability"
	"github.com/kbukum/streamhub/server"
	"github.com/kbukum/streamhub/sse"
	"github.com/kbukum/streamhub/validation"
)

// StreamKeyHeader tells a /sse client which key its stream is registered
// under, so a producer can address it.
const StreamKeyHeader = "X-Stream-Key"

// Streams serves the stream routes.
type Streams struct {
	handler     *sse.Handler
	registry    *sse.Registry
	broadcaster sse.Broadcaster
	feed        *feed.Producer
	log         *logger.Logger
}

// NewStreams creates the stream handlers. producer feeds /sse.
func NewStreams(h *sse.Handler, producer *feed.Producer, log *logger.Logger) *Streams {
	return &Streams{
		handler:     h,
		registry:    h.Registry(),
		broadcaster: h.Registry(),
		feed:        producer,
		log:         log.WithComponent("routes"),
	}
}

// Feed opens a stream under the request ID and runs the demo feed on it
// until the client leaves.
func (s *Streams) Feed(c *gin.Context) {
	key := logger.RequestIDFromContext(c.Request.Context())
	if key == "" {
		key = uuid.NewString()
	}
	c.Header(StreamKeyHeader, key)
	var produce sse.ProduceFunc
	if s.feed != nil {
		produce = s.feed.ProduceFunc()
	}
	s.serve(c, key, produce)
}

// Open opens a stream under :key and holds it until it closes. Another
// request can write to it through Publish.
func (s *Streams) Open(c *gin.Context) {
	key := c.Param("key")
	if err := validation.StreamKey(key); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header(StreamKeyHeader, key)
	s.serve(c, key, nil)
}

func (s *Streams) serve(c *gin.Context, key string, produce sse.ProduceFunc) {
	if _, err := s.handler.Serve(c.Writer, c.Request, key, produce); err != nil {
		// The preamble may be partly written; only a clean failure gets a body.
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			server.RespondWithError(c, err)
		}
		return
	}
	c.Abort()
}

// Publish writes one frame to the stream at :key.
func (s *Streams) Publish(c *gin.Context) {
	key := c.Param("key")
	if err := validation.StreamKey(key); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := authorizeKey(c, key); err != nil {
		server.RespondWithError(c, err)
		return
	}

	var req EventRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}

	stream, ok := s.registry.Get(key)
	if !ok {
		server.RespondWithError(c, apperrors.StreamNotFound(key))
		return
	}
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanStreamWrite)
	span.SetAttributes(
		attribute.String(observability.AttrStreamKey, key),
		attribute.String(observability.AttrStreamID, stream.ID()),
		attribute.String(observability.AttrFrameKind, req.Kind()),
	)
	err := req.WriteTo(stream)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	span.End()
	if err != nil {
		server.RespondWithError(c, writeError(key, stream, err))
		return
	}

	s.log.WithContext(c.Request.Context()).Debug("event published", logger.Fields(
		logger.FieldStreamKey, key,
		logger.FieldStreamID, stream.ID(),
		"kind", req.Kind(),
	))
	server.RespondAccepted(c, PublishResponse{Key: key, StreamID: stream.ID(), Kind: req.Kind()})
}

// End ends the stream at :key. The registry entry is removed as the
// stream closes.
func (s *Streams) End(c *gin.Context) {
	key := c.Param("key")
	if err := validation.StreamKey(key); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := authorizeKey(c, key); err != nil {
		server.RespondWithError(c, err)
		return
	}

	stream, ok := s.registry.Get(key)
	if !ok {
		server.RespondWithError(c, apperrors.StreamNotFound(key))
		return
	}
	stream.End()
	s.log.WithContext(c.Request.Context()).Debug("stream ended by request", logger.StreamFields(key, stream.ID()))
	server.RespondNoContent(c)
}

// List returns the open stream keys, sorted.
func (s *Streams) List(c *gin.Context) {
	keys := s.registry.Keys()
	server.RespondOKWithMeta(c, keys, &server.Meta{Total: len(keys)})
}

// Broadcast writes one event to every stream whose key matches the
// pattern. A token scoped to stream patterns may only broadcast with one of
// those exact patterns.
func (s *Streams) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := authorizePattern(c, req.Pattern); err != nil {
		server.RespondWithError(c, err)
		return
	}

	delivered, err := s.broadcaster.BroadcastToPattern(req.Pattern, sse.Event{Event: req.Event, Data: req.Data})
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("pattern", err.Error()))
		return
	}
	server.RespondOK(c, BroadcastResponse{Pattern: req.Pattern, Delivered: delivered})
}

// writeError maps a failed write to the HTTP error for the caller. A stream
// that closed before or during the write is gone (410).
func writeError(key string, stream sse.Stream, err error) error {
	if errors.Is(err, sse.ErrStreamClosed) || stream.Closed() {
		return apperrors.StreamClosed(key).WithCause(err)
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.Internal(err)
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "Request body too large.", http.StatusRequestEntityTooLarge)
		}
		return apperrors.Validation("Request body must be a JSON object.").WithCause(err)
	}
	return nil
}

// producerClaims returns the claims the auth middleware stored, or nil when
// auth is disabled. Claims of any other shape are rejected.
func producerClaims(c *gin.Context) (*auth.ProducerClaims, error) {
	claims, err := authctx.Require[*auth.ProducerClaims](c.Request.Context())
	switch {
	case errors.Is(err, authctx.ErrNoClaims):
		return nil, nil
	case err != nil:
		return nil, apperrors.Forbidden("Token is not a producer token.").WithCause(err)
	case claims == nil:
		return nil, apperrors.Forbidden("Token is not a producer token.")
	}
	return claims, nil
}

func authorizeKey(c *gin.Context, key string) error {
	claims, err := producerClaims(c)
	if err != nil {
		return err
	}
	if claims == nil || claims.AllowsKey(key) {
		return nil
	}
	return apperrors.Forbidden("Token does not grant access to this stream.").WithDetail("key", key)
}

func authorizePattern(c *gin.Context, pattern string) error {
	claims, err := producerClaims(c)
	if err != nil {
		return err
	}
	if claims == nil || len(claims.Streams) == 0 {
		return nil
	}
	for _, p := range claims.Streams {
		if p == pattern {
			return nil
		}
	}
	return apperrors.Forbidden("Token does not grant access to this pattern.").WithDetail("pattern", pattern)
}
