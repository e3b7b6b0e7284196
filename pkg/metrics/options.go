// Package metrics provides Prometheus metrics for the staffing batch.
//
// Recording goes through package-level functions backed by one global
// Manager. The staffer CLI calls Configure once at startup with options
// derived from its config; everything else just records.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLatencyBuckets are the millisecond buckets used for run and
// delivery latency histograms.
var DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // read-only defaults

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace replaces the "staffing" namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of the latency histograms.
func WithLatencyBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithMetricsEnabled turns recording on or off.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels attaches labels such as env or site to every series, so
// textfiles from several batch hosts can be told apart.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.customLabels = labels
		}
	}
}

// WithMetricPrefix prefixes metric names, e.g. "nightly" gives
// staffing_batch_nightly_runs_total.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithPrometheusRegistry registers the metrics on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
