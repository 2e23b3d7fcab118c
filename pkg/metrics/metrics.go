package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "specmock"

// Request outcomes.
const (
	OutcomeMocked    = "mocked"
	OutcomeUnmatched = "unmatched"
	OutcomeError     = "error"
)

// Reload results.
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
)

// Collector records dispatcher activity.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	Routes             prometheus.Gauge
	ReloadsTotal       *prometheus.CounterVec
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	runtime bool
	buckets []float64
}

// WithRuntimeMetrics adds the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtime = true }
}

// WithBuckets overrides the generation duration histogram buckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// New creates a Collector backed by a fresh registry.
func New(opts ...Option) *Collector {
	o := options{
		buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests handled by the dispatcher.",
		}, []string{"method", "outcome"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating mock response values.",
			Buckets:   o.buckets,
		}),
		Routes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes",
			Help:      "Routes in the active route table.",
		}),
		ReloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Document reloads by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(c.RequestsTotal, c.GenerationDuration, c.Routes, c.ReloadsTotal)
	if o.runtime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveRequest records one dispatched request. Generation time is only
// observed for requests that reached a route.
func (c *Collector) ObserveRequest(method, outcome string, generation time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(strings.ToUpper(method), outcome).Inc()
	if outcome != OutcomeUnmatched {
		c.GenerationDuration.Observe(generation.Seconds())
	}
}

// SetRoutes records the size of the active route table.
func (c *Collector) SetRoutes(n int) {
	if c == nil {
		return
	}
	c.Routes.Set(float64(n))
}

// ObserveReload records a reload attempt.
func (c *Collector) ObserveReload(err error) {
	if c == nil {
		return
	}
	result := ReloadSuccess
	if err != nil {
		result = ReloadFailure
	}
	c.ReloadsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
