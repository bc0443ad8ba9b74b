// Package metrics exports connection pool statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuku/connpool"
)

// StatsSource is anything that reports pool statistics. Every connpool.Pool,
// pgxconn.Pool and sqlconn.Pool is one.
type StatsSource interface {
	Stats() connpool.Stats
}

// Collector is a prometheus.Collector reading a pool's statistics at scrape
// time.
type Collector struct {
	source StatsSource

	idle           *prometheus.Desc
	growthCount    *prometheus.Desc
	maxConns       *prometheus.Desc
	created        *prometheus.Desc
	createFailures *prometheus.Desc
	borrowed       *prometheus.Desc
	recycled       *prometheus.Desc
	destroyed      *prometheus.Desc
	exhausted      *prometheus.Desc
	resets         *prometheus.Desc
}

// NewCollector returns a collector for source. pool is attached to every
// series as the "pool" label.
func NewCollector(source StatsSource, pool string) *Collector {
	labels := prometheus.Labels{"pool": pool}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("connpool", "", name), help, nil, labels)
	}

	return &Collector{
		source:         source,
		idle:           desc("idle_connections", "Number of idle connections."),
		growthCount:    desc("growth_count", "Batches created since the last reset, including the initial one."),
		maxConns:       desc("max_connections", "Upper bound on the number of connections, max growths times batch size."),
		created:        desc("connections_created_total", "Physical connections opened."),
		createFailures: desc("connection_failures_total", "Failed attempts to open a physical connection."),
		borrowed:       desc("borrows_total", "Successful borrows."),
		recycled:       desc("recycles_total", "Connections returned to the idle queue."),
		destroyed:      desc("connections_destroyed_total", "Physical connections closed."),
		exhausted:      desc("exhausted_total", "Borrows refused because the pool could not grow."),
		resets:         desc("resets_total", "Pool resets caused by a failed liveness probe."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.idle
	ch <- c.growthCount
	ch <- c.maxConns
	ch <- c.created
	ch <- c.createFailures
	ch <- c.borrowed
	ch <- c.recycled
	ch <- c.destroyed
	ch <- c.exhausted
	ch <- c.resets
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	gauge := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	gauge(c.idle, s.Idle)
	gauge(c.growthCount, s.GrowthCount)
	gauge(c.maxConns, s.MaxGrowths*s.BatchSize)
	counter(c.created, s.Created)
	counter(c.createFailures, s.CreateFailures)
	counter(c.borrowed, s.Borrowed)
	counter(c.recycled, s.Recycled)
	counter(c.destroyed, s.Destroyed)
	counter(c.exhausted, s.Exhausted)
	counter(c.resets, s.Resets)
}
