// Package metrics exposes Prometheus counters for the fetch, normalize and
// filter stages. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ugl"

// Fetch results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	normalized    *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	filterResults prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Source fetches by result.",
		}, []string{"source", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Time spent fetching a source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		normalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Course records produced per source.",
		}, []string{"source"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Malformed rows dropped per source.",
		}, []string{"source"}),
		filterResults: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_results",
			Help:      "Records left after the most recent filter.",
		}),
	}

	m.registry.MustRegister(
		m.fetchTotal,
		m.fetchDuration,
		m.normalized,
		m.dropped,
		m.filterResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.fetchTotal.WithLabelValues(source, result).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// AddNormalized counts records produced by a source.
func (m *Metrics) AddNormalized(source string, n int) {
	if m == nil {
		return
	}
	m.normalized.WithLabelValues(source).Add(float64(n))
}

// AddDropped counts rows a source could not use.
func (m *Metrics) AddDropped(source string, n int) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(source).Add(float64(n))
}

// SetFilterResults records the size of the latest filtered set.
func (m *Metrics) SetFilterResults(n int) {
	if m == nil {
		return
	}
	m.filterResults.Set(float64(n))
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
