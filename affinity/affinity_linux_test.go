//go:build linux

// File: affinity/affinity_linux_test.go
// Author: momentics <momentics@gmail.com>

package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSetAffinity_PinsThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var saved unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &saved))
	defer unix.SchedSetaffinity(0, &saved)

	before, err := Current()
	require.NoError(t, err)
	require.NotEmpty(t, before)

	target := before[len(before)-1]
	require.NoError(t, SetAffinity(target))
	after, err := Current()
	require.NoError(t, err)
	assert.Equal(t, []int{target}, after)
}

func TestSetAffinity_NegativeIsNoop(t *testing.T) {
	assert.NoError(t, SetAffinity(-1))
}

func TestPin_Restores(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	before, err := Current()
	require.NoError(t, err)

	restore, err := Pin(before[0])
	require.NoError(t, err)
	pinned, err := Current()
	require.NoError(t, err)
	assert.Equal(t, []int{before[0]}, pinned)

	restore()
	after, err := Current()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
