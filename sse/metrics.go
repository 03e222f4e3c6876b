package sse

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for stream sessions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	StreamsOpen   prometheus.Gauge
	StreamsOpened prometheus.Counter
	StreamsClosed *prometheus.CounterVec
	FramesWritten *prometheus.CounterVec
	BytesWritten  prometheus.Counter
	WriteErrors   prometheus.Counter
}

// NewMetrics creates and registers all stream metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		StreamsOpen: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "streamhub",
				Name:      "streams_open",
				Help:      "Number of sessions currently streaming",
			},
		),
		StreamsOpened: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "streamhub",
				Name:      "streams_opened_total",
				Help:      "Total sessions that completed the preamble",
			},
		),
		StreamsClosed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhub",
				Name:      "streams_closed_total",
				Help:      "Total sessions closed, by reason",
			},
			[]string{"reason"}, // client, producer, replaced, shutdown, write_error
		),
		FramesWritten: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamhub",
				Name:      "frames_written_total",
				Help:      "Total frames written to clients, by kind",
			},
			[]string{"kind"}, // data, field, event, comment
		),
		BytesWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "streamhub",
				Name:      "bytes_written_total",
				Help:      "Total bytes written to stream clients",
			},
		),
		WriteErrors: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "streamhub",
				Name:      "write_errors_total",
				Help:      "Total failed writes or flushes",
			},
		),
	}
}

// ObserveRegistry exports the registry size as a gauge sampled on scrape.
func ObserveRegistry(reg prometheus.Registerer, r *Registry) {
	promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "streamhub",
			Name:      "registry_entries",
			Help:      "Number of keys in the stream registry",
		},
		func() float64 { return float64(r.Size()) },
	)
}

func (m *Metrics) opened() {
	if m == nil {
		return
	}
	m.StreamsOpened.Inc()
	m.StreamsOpen.Inc()
}

func (m *Metrics) closed(reason CloseReason, wasOpen bool) {
	if m == nil {
		return
	}
	m.StreamsClosed.WithLabelValues(string(reason)).Inc()
	if wasOpen {
		m.StreamsOpen.Dec()
	}
}

func (m *Metrics) frame(kind string, n int) {
	if m == nil {
		return
	}
	m.FramesWritten.WithLabelValues(kind).Inc()
	m.BytesWritten.Add(float64(n))
}

func (m *Metrics) writeError() {
	if m == nil {
		return
	}
	m.WriteErrors.Inc()
}
