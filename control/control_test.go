// File: control/control_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry_Publish(t *testing.T) {
	reg := NewMetricsRegistry()
	assert.True(t, reg.Updated().IsZero())

	reg.Set("a.x", 1)
	reg.Publish("exec", map[string]uint64{"polls": 3, "parks": 1})

	v, ok := reg.Get("exec.polls")
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)
	_, ok = reg.Get("exec.missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a.x", "exec.parks", "exec.polls"}, reg.Keys())
	assert.False(t, reg.Updated().IsZero())

	snap := reg.GetSnapshot()
	snap["a.x"] = 99
	v, _ = reg.Get("a.x")
	assert.Equal(t, uint64(1), v, "snapshot must be a copy")
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	state := dp.DumpState()
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "platform.goroutines")

	n := 0
	dp.RegisterProbe("custom", func() any { n++; return n })
	assert.Equal(t, 1, dp.DumpState()["custom"])
	assert.Equal(t, 2, dp.DumpState()["custom"])

	dp.UnregisterProbe("custom")
	assert.NotContains(t, dp.DumpState(), "custom")
}

func TestDebugProbes_ProbeMayRegister(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("reentrant", func() any {
		dp.RegisterProbe("late", func() any { return true })
		return nil
	})
	assert.NotPanics(t, func() { dp.DumpState() })
	assert.Contains(t, dp.DumpState(), "late")
}
