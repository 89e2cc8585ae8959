// Package metrics exposes Prometheus metrics for upstream requests and tool
// calls. All methods are safe on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for upstream sources and the tool surface.
type Metrics struct {
	// Upstream request latency by source and operation
	UpstreamLatency *prometheus.HistogramVec

	// Upstream failures by source and failure category
	UpstreamFailures *prometheus.CounterVec

	// Records returned to callers by source
	RecordsReturnedTotal *prometheus.CounterVec

	// Tool calls by tool name and outcome ("ok", "error")
	ToolCalls *prometheus.CounterVec

	// Tool call latency by tool name
	ToolLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered with reg. A nil reg registers
// with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uslegal_upstream_request_duration_seconds",
			Help:    "Duration of upstream API requests by source and operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source", "operation"}),

		UpstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "uslegal_upstream_failures_total",
			Help: "Total upstream request failures by source and category",
		}, []string{"source", "category"}),

		RecordsReturnedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "uslegal_records_returned_total",
			Help: "Total normalized records returned by source",
		}, []string{"source"}),

		ToolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "uslegal_tool_calls_total",
			Help: "Total tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),

		ToolLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uslegal_tool_call_duration_seconds",
			Help:    "Duration of tool calls including all upstream requests",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"tool"}),
	}
}

// ObserveUpstream records the duration of one upstream request.
func (m *Metrics) ObserveUpstream(source, op string, d time.Duration) {
	if m != nil {
		m.UpstreamLatency.WithLabelValues(source, op).Observe(d.Seconds())
	}
}

// UpstreamFailure records a classified upstream failure.
func (m *Metrics) UpstreamFailure(source, category string) {
	if m != nil {
		m.UpstreamFailures.WithLabelValues(source, category).Inc()
	}
}

// RecordsReturned adds n records returned by source.
func (m *Metrics) RecordsReturned(source string, n int) {
	if m != nil && n > 0 {
		m.RecordsReturnedTotal.WithLabelValues(source).Add(float64(n))
	}
}

// ObserveToolCall records one tool call.
func (m *Metrics) ObserveToolCall(tool string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolLatency.WithLabelValues(tool).Observe(d.Seconds())
}
