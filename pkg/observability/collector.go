// Package observability exposes state map and intern table footprint
// counters as Prometheus metrics.
//
// The collector is pull-based: registered sources are sampled at scrape
// time, so the library's hot path carries no instrumentation cost.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sumatoshi-tech/statemap/pkg/intern"
	"github.com/Sumatoshi-tech/statemap/pkg/statemap"
)

// StatsSource yields a footprint snapshot. Every statemap.Map
// instantiation satisfies it.
type StatsSource interface {
	Stats() statemap.Stats
}

// Collector is a prometheus.Collector over named maps and tables.
// Sources are sampled at scrape time; register it with a
// prometheus.Registerer to expose the metrics.
type Collector struct {
	mu     sync.RWMutex
	maps   map[string]StatsSource
	tables map[string]*intern.Table

	entriesDesc      *prometheus.Desc
	eventTypesDesc   *prometheus.Desc
	tableStringsDesc *prometheus.Desc
	tableBytesDesc   *prometheus.Desc
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		maps:   make(map[string]StatsSource),
		tables: make(map[string]*intern.Table),
		entriesDesc: prometheus.NewDesc(
			"statemap_entries",
			"Number of (event type, state key) entries in a state map.",
			[]string{"map"}, nil,
		),
		eventTypesDesc: prometheus.NewDesc(
			"statemap_event_types",
			"Number of distinct event types present in a state map.",
			[]string{"map"}, nil,
		),
		tableStringsDesc: prometheus.NewDesc(
			"statemap_intern_strings",
			"Number of distinct strings held by an intern table.",
			[]string{"table"}, nil,
		),
		tableBytesDesc: prometheus.NewDesc(
			"statemap_intern_bytes",
			"Canonical string bytes held by an intern table.",
			[]string{"table"}, nil,
		),
	}
}

// RegisterMap adds a named map to the collector, replacing any source
// previously registered under the same name.
func (c *Collector) RegisterMap(name string, src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maps[name] = src
}

// RegisterTable adds a named intern table to the collector.
func (c *Collector) RegisterTable(name string, table *intern.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables[name] = table
}

// UnregisterMap removes a named map source.
func (c *Collector) UnregisterMap(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.maps, name)
}

// UnregisterTable removes a named table source.
func (c *Collector) UnregisterTable(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.tables, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entriesDesc
	ch <- c.eventTypesDesc
	ch <- c.tableStringsDesc
	ch <- c.tableBytesDesc
}

// Collect implements prometheus.Collector. Registered sources are
// sampled under the collector's read lock; the sources themselves must
// not be mutated concurrently with scrapes.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, src := range c.maps {
		stats := src.Stats()

		ch <- prometheus.MustNewConstMetric(
			c.entriesDesc, prometheus.GaugeValue, float64(stats.Entries), name,
		)
		ch <- prometheus.MustNewConstMetric(
			c.eventTypesDesc, prometheus.GaugeValue, float64(stats.EventTypes), name,
		)
	}

	for name, table := range c.tables {
		ch <- prometheus.MustNewConstMetric(
			c.tableStringsDesc, prometheus.GaugeValue, float64(table.Len()), name,
		)
		ch <- prometheus.MustNewConstMetric(
			c.tableBytesDesc, prometheus.GaugeValue, float64(table.Bytes()), name,
		)
	}
}
