// Package metrics exposes Prometheus metrics for postboard loads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics holds the collectors of one postboard instance on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	loads    *prometheus.CounterVec
	duration prometheus.Histogram
	items    prometheus.Gauge
}

// New creates a [Metrics] with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postboard",
			Name:      "loads_total",
			Help:      "Loads of the post source by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postboard",
			Name:      "load_duration_seconds",
			Help:      "Time from request to terminal signal.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postboard",
			Name:      "items",
			Help:      "Posts held after the last successful load.",
		}),
	}

	m.registry.MustRegister(
		m.loads,
		m.duration,
		m.items,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// every outcome series is exported from the start, at zero
	for _, o := range []string{OutcomeSuccess, OutcomeFailure, OutcomeSkipped} {
		m.loads.WithLabelValues(o)
	}
	return m
}

// ObserveLoad records a completed load. items is ignored when err is non-nil,
// since a failed load leaves the previous posts in place.
func (m *Metrics) ObserveLoad(latency time.Duration, items int, err error) {
	m.duration.Observe(latency.Seconds())
	if err != nil {
		m.loads.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.loads.WithLabelValues(OutcomeSuccess).Inc()
	m.items.Set(float64(items))
}

// ObserveSkipped records a trigger that was dropped because a load was in flight.
func (m *Metrics) ObserveSkipped() {
	m.loads.WithLabelValues(OutcomeSkipped).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
