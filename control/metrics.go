// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector. Executors and reactors publish their counters
// here under dotted keys ("executor.polls", "reactor.events", ...).

package control

import (
	"sort"
	"sync"
	"time"
)

// MetricsRegistry holds the latest published value per metric key.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]uint64
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]uint64),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value uint64) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Publish stores every entry of values under prefix+"."+name.
func (mr *MetricsRegistry) Publish(prefix string, values map[string]uint64) {
	mr.mu.Lock()
	for k, v := range values {
		mr.metrics[prefix+"."+k] = v
	}
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Get returns the value stored under key.
func (mr *MetricsRegistry) Get(key string) (uint64, bool) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	v, ok := mr.metrics[key]
	return v, ok
}

// Keys returns the registered keys in sorted order.
func (mr *MetricsRegistry) Keys() []string {
	mr.mu.RLock()
	keys := make([]string, 0, len(mr.metrics))
	for k := range mr.metrics {
		keys = append(keys, k)
	}
	mr.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// GetSnapshot returns a copy of the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]uint64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]uint64, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated reports when a metric was last written.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
