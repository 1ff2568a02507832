// Package exporter publishes live run counters in the Prometheus text format.
package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

const namespace = "fireworksbench"

// Collector reads ResultStore counts at scrape time, so workers never touch
// Prometheus state.
type Collector struct {
	store       *metrics.ResultStore
	concurrency int

	responses *prometheus.Desc
	errors    *prometheus.Desc
	workers   *prometheus.Desc
}

// NewCollector describes the counters of a run against target.
func NewCollector(store *metrics.ResultStore, target string, concurrency int) *Collector {
	constLabels := prometheus.Labels{"target": target}
	return &Collector{
		store:       store,
		concurrency: concurrency,
		responses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "responses_total"),
			"Completed HTTP exchanges by status group",
			[]string{"status_group"}, constLabels,
		),
		errors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "errors_total"),
			"Requests that failed after retries by error kind",
			[]string{"kind"}, constLabels,
		),
		workers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "workers"),
			"Configured number of concurrent workers",
			nil, constLabels,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.responses
	ch <- c.errors
	ch <- c.workers
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	groups, kinds := c.store.Counts()
	for group, n := range groups {
		ch <- prometheus.MustNewConstMetric(c.responses, prometheus.CounterValue, float64(n), group)
	}
	// Every kind is exported so rate() queries see a series from the start.
	for _, kind := range metrics.ErrorKinds {
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(kinds[kind]), string(kind))
	}
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(c.concurrency))
}
