package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.RecordFrame(10)
	m.RecordFrameError("truncated")
	m.RecordParsed()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"nasbench_frames_decoded_total",
		"nasbench_frame_bytes_total",
		"nasbench_frame_errors_total",
		"nasbench_records_total",
	}, names)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordFrame(100)
	m.RecordFrame(28)
	m.RecordFrameError("checksum")
	m.RecordFrameError("checksum")
	m.RecordFrameError("truncated")
	m.RecordParsed()
	m.RecordParsed()
	m.RecordSkipped()
	m.RecordFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesTotal))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.frameBytesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frameErrorsTotal.WithLabelValues("checksum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frameErrorsTotal.WithLabelValues("truncated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(statusParsed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(statusSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(statusFailed)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFrame(1)
		m.RecordFrameError("io")
		m.RecordParsed()
		m.RecordSkipped()
		m.RecordFailed()
	})
}
