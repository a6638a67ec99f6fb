package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusParsed  = "parsed"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// Metrics holds the Prometheus collectors for a decode pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Frame layer
	framesTotal      prometheus.Counter
	frameBytesTotal  prometheus.Counter
	frameErrorsTotal *prometheus.CounterVec

	// Record layer
	recordsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them process-wide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		framesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nasbench_frames_decoded_total",
				Help: "Total number of TFRecord frames that passed both checksums",
			},
		),

		frameBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nasbench_frame_bytes_total",
				Help: "Total payload bytes returned by the frame decoder",
			},
		),

		frameErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nasbench_frame_errors_total",
				Help: "Total number of terminal frame decode errors",
			},
			[]string{"kind"},
		),

		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nasbench_records_total",
				Help: "Total number of interpreted records by outcome",
			},
			[]string{"status"},
		),
	}
}

// RecordFrame records one decoded frame of n payload bytes
func (m *Metrics) RecordFrame(n int) {
	if m == nil {
		return
	}
	m.framesTotal.Inc()
	m.frameBytesTotal.Add(float64(n))
}

// RecordFrameError records a terminal decode error of the given kind.
func (m *Metrics) RecordFrameError(kind string) {
	if m == nil {
		return
	}
	m.frameErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordParsed records a successfully interpreted record.
func (m *Metrics) RecordParsed() {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(statusParsed).Inc()
}

// RecordSkipped records a malformed record that was dropped.
func (m *Metrics) RecordSkipped() {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(statusSkipped).Inc()
}

// RecordFailed records a malformed record that ended the scan.
func (m *Metrics) RecordFailed() {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(statusFailed).Inc()
}
