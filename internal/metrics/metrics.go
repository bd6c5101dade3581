// Package metrics exposes Prometheus metrics about registry operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "students_registry"

// Collector is a prometheus.Collector that counts registry operations by
// outcome and measures how long they take.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "operations_total",
				Help:      "The number of registry operations by outcome.",
			}, []string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "The time taken by a registry operation, storage included.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			}, []string{"operation"},
		),
	}
}

// Observe records one finished operation.
func (c *Collector) Observe(operation, outcome string, took time.Duration) {
	c.operations.WithLabelValues(operation, outcome).Inc()
	c.duration.WithLabelValues(operation).Observe(took.Seconds())
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.operations.Describe(ch)
	c.duration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.operations.Collect(ch)
	c.duration.Collect(ch)
}
