// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

// Package metrics exports cuckoo map counters to prometheus.
package metrics

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"leb.io/cuckoo/v2"
)

// Collector reports the counters of one map labelled with name: the current size and
// longest eviction chain as cuckoo_stats gauges, everything that only goes up as
// cuckoo_events_total counters.
// The map is not safe for concurrent use, so snapshot must only be called while
// nothing else touches it; the CLI collects between trials.
type Collector struct {
	stats    *prometheus.Desc
	events   *prometheus.Desc
	snapshot func() cuckoo.Counters
}

// NewCollector returns a collector that reads counters through snapshot.
func NewCollector(name string, snapshot func() cuckoo.Counters) *Collector {
	labels := prometheus.Labels{"name": name}
	return &Collector{
		stats:    prometheus.NewDesc("cuckoo_stats", "State of a cuckoo map", []string{"metric"}, labels),
		events:   prometheus.NewDesc("cuckoo_events_total", "Operations and events of a cuckoo map", []string{"event"}, labels),
		snapshot: snapshot,
	}
}

// ForMap collects the live counters of c.
func ForMap(name string, c *cuckoo.Cuckoo) *Collector {
	return NewCollector(name, func() cuckoo.Counters { return c.Counters })
}

func (m *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.stats
	ch <- m.events
}

func (m *Collector) Collect(ch chan<- prometheus.Metric) {
	s := m.snapshot()
	ch <- prometheus.MustNewConstMetric(m.stats, prometheus.GaugeValue, float64(s.Elements), "elements")
	ch <- prometheus.MustNewConstMetric(m.stats, prometheus.GaugeValue, float64(s.MaxPathLen), "max_path_len")
	for _, v := range []struct {
		event string
		val   int
	}{
		{"inserts", s.Inserts},
		{"updates", s.Updates},
		{"lookups", s.Lookups},
		{"hits", s.Hits},
		{"deletes", s.Deletes},
		{"bumps", s.Bumps},
		{"grows", s.Grows},
		{"cycles", s.Cycles},
	} {
		ch <- prometheus.MustNewConstMetric(m.events, prometheus.CounterValue, float64(v.val), v.event)
	}
}

// Write gathers cs from a private registry and writes them in the text exposition format.
func Write(w io.Writer, cs ...prometheus.Collector) error {
	reg := prometheus.NewRegistry()
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "metrics: register")
		}
	}
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "metrics: gather")
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "metrics: encode")
		}
	}
	return nil
}
