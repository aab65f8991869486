// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus bridge for the metrics registry, for scraping loop
// dispatch counters over HTTP.

package control

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector adapts a MetricsRegistry to the Prometheus collector
// interface. All counters are exported under a single metric name with
// the registry key as label.
type Collector struct {
	registry *MetricsRegistry
	desc     *prometheus.Desc
}

// NewCollector creates a collector reading from mr.
func NewCollector(mr *MetricsRegistry) *Collector {
	return &Collector{
		registry: mr,
		desc: prometheus.NewDesc(
			"evsource_events_total",
			"Cumulative event-loop counters keyed by counter name.",
			[]string{"counter"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for key, value := range c.registry.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(value), key)
	}
}

// Handler returns an HTTP handler serving the registry's counters in
// Prometheus exposition format.
func Handler(mr *MetricsRegistry) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(mr))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
