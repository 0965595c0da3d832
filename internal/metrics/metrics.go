// Package metrics provides Prometheus metrics for the summarize endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transcriptsum"

const (
	OutcomeSuccess        = "success"
	OutcomeRejected       = "rejected"
	OutcomeNotConfigured  = "not_configured"
	OutcomeUpstreamFailed = "upstream_error"
)

type Metrics struct {
	registry *prometheus.Registry

	// SummarizeTotal counts summarize requests by provider and outcome.
	SummarizeTotal *prometheus.CounterVec
	// SummarizeDuration measures provider call duration.
	SummarizeDuration *prometheus.HistogramVec
}

// New registers collectors on a private registry so several instances can
// coexist, e.g. in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SummarizeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summarize_requests_total",
				Help:      "Total number of summarize requests",
			},
			[]string{"provider", "outcome"},
		),
		SummarizeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_seconds",
				Help:      "Duration of provider calls in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"provider"},
		),
	}
}

func (m *Metrics) RecordSummarize(provider, outcome string, duration time.Duration) {
	m.SummarizeTotal.WithLabelValues(provider, outcome).Inc()
	if duration > 0 {
		m.SummarizeDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
