package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "fiber").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vango",
		Subsystem: "fiber",
		Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a vango.Observer backed by Prometheus collectors.
type Metrics struct {
	renders        prometheus.Counter
	units          prometheus.Counter
	slices         prometheus.Counter
	yields         prometheus.Counter
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
	mutations      *prometheus.CounterVec
	effects        *prometheus.HistogramVec
}

var _ vango.Observer = (*Metrics)(nil)

// NewMetrics registers the collectors and returns the observer. Registering
// twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		renders: counter("renders_total", "Total number of builds started, including restarts"),
		units:   counter("units_total", "Total number of fiber units performed"),
		slices:  counter("slices_total", "Total number of render slices run"),
		yields:  counter("yields_total", "Total number of slices that yielded with work left"),

		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of commits by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total host adapter calls made by commits",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		effects: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_effects",
			Help:        "Fibers per commit by effect",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"effect"}),
	}
}

// RenderRequested implements vango.Observer.
func (m *Metrics) RenderRequested() {
	m.renders.Inc()
}

// SliceFinished implements vango.Observer.
func (m *Metrics) SliceFinished(units int, yielded bool) {
	m.slices.Inc()
	m.units.Add(float64(units))
	if yielded {
		m.yields.Inc()
	}
}

// Committed implements vango.Observer.
func (m *Metrics) Committed(stats vango.CommitStats, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "aborted"
	}
	m.commits.WithLabelValues(status).Inc()
	m.commitDuration.Observe(d.Seconds())

	for _, op := range host.Ops {
		if n := stats.Ops[op]; n > 0 {
			m.mutations.WithLabelValues(op.String()).Add(float64(n))
		}
	}
	if err == nil {
		m.effects.WithLabelValues("placement").Observe(float64(stats.Placements))
		m.effects.WithLabelValues("update").Observe(float64(stats.Updates))
		m.effects.WithLabelValues("deletion").Observe(float64(stats.Deletions))
	}
}
