// File: facade/hioload_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package facade

import (
	"bytes"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/fake"
	"github.com/momentics/hioload-rt/future"
	"github.com/momentics/hioload-rt/reactor"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_Lifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerAddr = fake.StartDelayServer(t)
	cfg.ReadyOrder = "fifo"

	var logs bytes.Buffer
	h, err := Init(cfg, NewLogger(&logs, logiface.LevelInformational))
	require.NoError(t, err)
	require.NoError(t, h.Start())

	_, err = Init(cfg, nil)
	assert.ErrorIs(t, err, api.ErrReactorRunning)

	out, err := BlockOn(h, future.JoinAll[string](h.Get("/20/a"), h.Get("/10/b")))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Contains(t, out[0], "\r\n\r\na")
	assert.Contains(t, out[1], "\r\n\r\nb")

	polls, ok := h.Metrics().Get("executor.polls")
	require.True(t, ok)
	assert.NotZero(t, polls)

	state := h.DebugState()
	assert.Equal(t, 0, state["reactor.registrations"])
	assert.Equal(t, false, state["executor.running"])

	require.NoError(t, h.Stop())
	require.NoError(t, h.Shutdown())
	_, err = reactor.Lookup()
	assert.ErrorIs(t, err, api.ErrNoReactor)
	assert.NotContains(t, h.DebugState(), "executor.stats")

	assert.Contains(t, logs.String(), "runtime started")
	assert.Contains(t, logs.String(), "runtime stopped")
}

func TestRuntime_EnablePrometheus(t *testing.T) {
	h, err := New(nil, nil)
	require.NoError(t, err)
	reg := prom.NewRegistry()
	x, err := h.EnablePrometheus(reg)
	require.NoError(t, err)
	again, err := h.EnablePrometheus(reg)
	require.NoError(t, err)
	assert.Same(t, x, again)

	require.NoError(t, h.Start())
	t.Cleanup(func() { _ = h.Stop() })

	v, err := BlockOn(h, future.Ready(7))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	families, err := reg.Gather()
	require.NoError(t, err)
	got := make(map[string]float64)
	for _, mf := range families {
		got[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), got["hioload_executor_completed_total"])
	assert.NotZero(t, got["hioload_executor_polls_total"])
	assert.Contains(t, got, "hioload_reactor_registered_total")

	require.NoError(t, h.Stop())
	families, err = reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.NotContains(t, mf.GetName(), "hioload_reactor_")
	}
}

func TestBlockOn_BeforeStart(t *testing.T) {
	h, err := New(nil, nil)
	require.NoError(t, err)
	_, err = BlockOn(h, future.Ready(1))
	assert.ErrorIs(t, err, api.ErrNoReactor)
}
