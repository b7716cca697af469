package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveGeneration("python", "success", time.Second)
	m.ObserveGeneration("python", "success", time.Second)
	m.ObserveGeneration("sql", "fallback", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues("python", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("sql", "fallback")))
}

func TestObserveSample(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSample(SampleAccepted, 9)
	m.ObserveSample(SampleRejected, 0)
	m.ObserveSample(SampleFailed, 0)
	m.ObserveSample(SampleFailed, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Samples.WithLabelValues(SampleAccepted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Samples.WithLabelValues(SampleFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CandidateScore))
}

func TestBackendGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetBackendAvailable(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendAvailable))
	m.SetBackendAvailable(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BackendAvailable))
}

func TestObserveHTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("POST", "/api/generate", 200, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/generate", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveGeneration("python", "success", time.Second)
		m.ObserveSample(SampleAccepted, 1)
		m.SetBackendAvailable(true)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
