// File: control/prometheus_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherCounters(t *testing.T, reg *prom.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out[mf.GetName()] = m.GetCounter().GetValue()
		}
	}
	return out
}

func TestStatsExporter_CollectsAtScrape(t *testing.T) {
	reg := prom.NewRegistry()
	x, err := NewStatsExporter("rt", reg)
	require.NoError(t, err)

	var polls uint64
	require.NoError(t, x.AddSource("executor", SnapshotFunc(func() map[string]uint64 {
		return map[string]uint64{"polls": polls, "panics": 0}
	})))

	polls = 3
	assert.Equal(t, map[string]float64{
		"rt_executor_polls_total":  3,
		"rt_executor_panics_total": 0,
	}, gatherCounters(t, reg))

	polls = 5
	assert.Equal(t, float64(5), gatherCounters(t, reg)["rt_executor_polls_total"])

	x.RemoveSource("executor")
	assert.Empty(t, gatherCounters(t, reg))
}

func TestStatsExporter_DefaultNamespace(t *testing.T) {
	reg := prom.NewRegistry()
	x, err := NewStatsExporter("", reg)
	require.NoError(t, err)
	require.NoError(t, x.AddSource("reactor", SnapshotFunc(func() map[string]uint64 {
		return map[string]uint64{"events": 2}
	})))
	assert.Equal(t, float64(2), gatherCounters(t, reg)["hioload_reactor_events_total"])
	assert.Error(t, x.AddSource("", SnapshotFunc(func() map[string]uint64 { return nil })))
}

func TestStatsExporter_InvalidNameReported(t *testing.T) {
	reg := prom.NewRegistry()
	x, err := NewStatsExporter("rt", reg)
	require.NoError(t, err)
	require.NoError(t, x.AddSource("bad-name", SnapshotFunc(func() map[string]uint64 {
		return map[string]uint64{"polls": 1}
	})))
	_, err = reg.Gather()
	assert.Error(t, err)
}
