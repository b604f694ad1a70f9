package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLatencyBuckets spans 5ms to roughly 10s. Durations are recorded in
// milliseconds, so the client library's second-based defaults do not fit.
var DefaultLatencyBuckets = prometheus.ExponentialBuckets(5, 2, 12) //nolint:gochecknoglobals // read-only bucket layout

// Option configures a Manager.
type Option func(*Manager)

// WithNames replaces the metric name prefix. Empty parts keep the default.
func WithNames(namespace, subsystem string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of every duration histogram.
func WithLatencyBuckets(buckets ...float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithConstLabels attaches labels such as the deployment name to every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithRegisterer registers the metrics on r instead of the default registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
