package feed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/observability"
	"github.com/kbukum/streamhub/sse"
)

// DefaultInterval is the tick period of the demo feed.
const DefaultInterval = 250 * time.Millisecond

// Producer writes one dataset per tick to a stream.
type Producer struct {
	gen      *Generator
	interval time.Duration
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(p *Producer) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMetrics records each tick on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Producer) { p.metrics = m }
}

// WithLogger sets the producer's logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Producer) { p.log = l }
}

// NewProducer creates a producer over gen.
func NewProducer(gen *Generator, opts ...Option) *Producer {
	p := &Producer{
		gen:      gen,
		interval: DefaultInterval,
		log:      logger.WithComponent("feed"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the tick period.
func (p *Producer) Interval() time.Duration { return p.interval }

// Run writes `data: <dataset>\n\n` every interval until ctx ends, the
// stream closes, or a write fails. It returns the number of datasets
// written. A write failure ends the loop; it is logged, not returned.
func (p *Producer) Run(ctx context.Context, stream sse.Stream) int {
	ctx, span := observability.StartSpan(ctx, observability.SpanFeedRun)
	span.SetAttributes(attribute.String(observability.AttrStreamID, stream.ID()))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	ticks := 0
	defer func() {
		span.SetAttributes(attribute.Int(observability.AttrTicks, ticks))
		span.End()
	}()

	for {
		select {
		case <-ctx.Done():
			return ticks
		case <-stream.Done():
			return ticks
		case <-ticker.C:
			payload, err := p.gen.Next().Encode()
			if err != nil {
				observability.SetSpanError(ctx, err)
				p.log.Error("encode dataset failed", logger.ErrorFields("encode", err))
				return ticks
			}
			if err := stream.Write(payload); err != nil {
				p.log.Debug("feed stopped", logger.Fields(
					logger.FieldStreamID, stream.ID(),
					logger.FieldError, err.Error(),
					"ticks", ticks,
				))
				return ticks
			}
			ticks++
			if p.metrics != nil {
				p.metrics.RecordFeedTick(ctx)
			}
		}
	}
}

// ProduceFunc adapts Run to sse.ProduceFunc.
func (p *Producer) ProduceFunc() sse.ProduceFunc {
	return func(ctx context.Context, s sse.Stream) {
		p.Run(ctx, s)
	}
}
