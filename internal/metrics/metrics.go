// Package metrics exposes the Prometheus instruments of the service. All
// methods are safe on a nil *Metrics so components can run without them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codewizard"

// Sample outcomes
const (
	SampleAccepted = "accepted"
	SampleRejected = "rejected"
	SampleFailed   = "failed"
)

// Metrics holds the service instruments
type Metrics struct {
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	Samples            *prometheus.CounterVec
	CandidateScore     prometheus.Histogram
	BackendAvailable   prometheus.Gauge
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the instruments with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation requests by language and status.",
		}, []string{"language", "status"}),
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "End-to-end generation latency.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"language"}),
		Samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Sampling attempts by outcome.",
		}, []string{"outcome"}),
		CandidateScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_score",
			Help:      "Heuristic score of accepted candidates.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		BackendAvailable: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_available",
			Help:      "1 when the model backend can take requests.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveGeneration records one finished generation
func (m *Metrics) ObserveGeneration(language, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(language, status).Inc()
	m.GenerationDuration.WithLabelValues(language).Observe(d.Seconds())
}

// ObserveSample records one sampling attempt; score is used for accepted ones
func (m *Metrics) ObserveSample(outcome string, score float64) {
	if m == nil {
		return
	}
	m.Samples.WithLabelValues(outcome).Inc()
	if outcome == SampleAccepted {
		m.CandidateScore.Observe(score)
	}
}

// SetBackendAvailable updates the backend gauge
func (m *Metrics) SetBackendAvailable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.BackendAvailable.Set(1)
		return
	}
	m.BackendAvailable.Set(0)
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
