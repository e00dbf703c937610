// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus view over executor and reactor counters. Snapshots are taken at
// scrape time, so no polling goroutine is needed.

package control

import (
	"errors"
	"sort"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

// SnapshotProvider returns the current counters of one component.
type SnapshotProvider interface {
	Snapshot() map[string]uint64
}

// SnapshotFunc adapts a function to SnapshotProvider.
type SnapshotFunc func() map[string]uint64

// Snapshot implements SnapshotProvider.
func (f SnapshotFunc) Snapshot() map[string]uint64 { return f() }

// StatsExporter exposes registered snapshots as Prometheus counters named
// <namespace>_<subsystem>_<key>_total.
type StatsExporter struct {
	namespace string

	mu      sync.RWMutex
	sources map[string]SnapshotProvider
}

var _ prom.Collector = (*StatsExporter)(nil)

// NewStatsExporter creates an exporter and registers it with reg.
// A nil reg means prom.DefaultRegisterer.
func NewStatsExporter(namespace string, reg prom.Registerer) (*StatsExporter, error) {
	if namespace == "" {
		namespace = "hioload"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	x := &StatsExporter{
		namespace: namespace,
		sources:   make(map[string]SnapshotProvider),
	}
	if err := reg.Register(x); err != nil {
		return nil, err
	}
	return x, nil
}

// AddSource adds or replaces the provider for subsystem.
func (x *StatsExporter) AddSource(subsystem string, p SnapshotProvider) error {
	if x == nil || p == nil {
		return nil
	}
	if subsystem == "" {
		return errors.New("control: empty metrics subsystem")
	}
	x.mu.Lock()
	x.sources[subsystem] = p
	x.mu.Unlock()
	return nil
}

// RemoveSource drops the provider for subsystem.
func (x *StatsExporter) RemoveSource(subsystem string) {
	if x == nil {
		return
	}
	x.mu.Lock()
	delete(x.sources, subsystem)
	x.mu.Unlock()
}

// Describe sends nothing: the metric set follows the registered sources, so
// the exporter registers as an unchecked collector.
func (x *StatsExporter) Describe(chan<- *prom.Desc) {}

// Collect implements prom.Collector.
func (x *StatsExporter) Collect(ch chan<- prom.Metric) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for subsystem, p := range x.sources {
		snap := p.Snapshot()
		keys := make([]string, 0, len(snap))
		for k := range snap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			desc := prom.NewDesc(
				prom.BuildFQName(x.namespace, subsystem, k+"_total"),
				"Runtime counter "+subsystem+"."+k+".",
				nil, nil,
			)
			m, err := prom.NewConstMetric(desc, prom.CounterValue, float64(snap[k]))
			if err != nil {
				m = prom.NewInvalidMetric(desc, err)
			}
			ch <- m
		}
	}
}
