// File: reactor/poller_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestToken_RoundTrip(t *testing.T) {
	for _, tok := range []uint64{0, 1, 1<<32 - 1, 1 << 32, 1<<40 + 5, ^uint64(0)} {
		var ev unix.EpollEvent
		setToken(&ev, tok)
		assert.Equal(t, tok, getToken(&ev))
	}
}

func TestEpollPoller_WakeInterruptsWait(t *testing.T) {
	p, err := NewPoller(8, true)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Wake())
	require.NoError(t, p.Wake())
	events := make([]Event, 8)
	n, err := p.Wait(events, 1000)
	require.NoError(t, err)
	assert.Zero(t, n, "wake descriptor must not surface as an event")

	// wake counter was drained, so a short wait times out empty
	n, err = p.Wait(events, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}
