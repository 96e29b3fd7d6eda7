// Package metrics exposes Prometheus instrumentation for diagram compilation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the compile collectors. A nil *Metrics is a valid no-op
// recorder.
type Metrics struct {
	registry     *prometheus.Registry
	compilations *prometheus.CounterVec
	duration     prometheus.Histogram
	nodes        prometheus.Histogram
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "squadgraph_compilations_total",
				Help: "Workflow compilations by detected dialect and outcome (ok, cache_hit or an error code)",
			},
			[]string{"dialect", "outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "squadgraph_compile_duration_seconds",
				Help:    "Time spent compiling a workflow into a diagram",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		nodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "squadgraph_diagram_nodes",
				Help:    "Number of nodes in successfully compiled diagrams",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}
	reg.MustRegister(m.compilations, m.duration, m.nodes)
	return m
}

// ObserveCompile records one compilation. Failures carry an empty dialect,
// reported as "none".
func (m *Metrics) ObserveCompile(dialect, outcome string, elapsed time.Duration, nodes int) {
	if m == nil {
		return
	}
	if dialect == "" {
		dialect = "none"
	}
	m.compilations.WithLabelValues(dialect, outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if nodes > 0 {
		m.nodes.Observe(float64(nodes))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
