// Package metrics exposes the Prometheus instruments of the service on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plumbweb"

// Metrics bundles the collectors registered by New.
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	instances   prometheus.Gauge
	evictions   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the service collectors plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_transitions_total",
			Help:      "Navigation menu operations applied, by operation.",
		}, []string{"op"}),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "page_instances",
			Help:      "Page instances currently tracked.",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_instances_evicted_total",
			Help:      "Page instances removed, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.transitions,
		m.instances,
		m.evictions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Transition counts one applied menu operation.
func (m *Metrics) Transition(op string) {
	m.transitions.WithLabelValues(op).Inc()
}

// SetInstances records the number of live page instances.
func (m *Metrics) SetInstances(n int) {
	m.instances.Set(float64(n))
}

// Evicted counts one removed page instance.
func (m *Metrics) Evicted(reason string) {
	m.evictions.WithLabelValues(reason).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.duration.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
