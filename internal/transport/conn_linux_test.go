// File: internal/transport/conn_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package transport

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (net.Listener, <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	ch := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			ch <- c
		}
	}()
	return ln, ch
}

func TestConn_WriteReadClose(t *testing.T) {
	ln, accepted := listen(t)
	c, err := Dial(ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	peer := <-accepted
	defer peer.Close()

	require.NoError(t, c.WriteAll([]byte("ping")))
	buf := make([]byte, 4)
	_, err = io.ReadFull(peer, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	require.NoError(t, c.SetNonblock(true))
	_, err = c.Read(buf)
	assert.ErrorIs(t, err, ErrWouldBlock)

	_, err = peer.Write([]byte("pong"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		n, err := c.Read(buf)
		return err == nil && n == 4 && string(buf) == "pong"
	}, time.Second, time.Millisecond)

	peer.Close()
	require.Eventually(t, func() bool {
		n, err := c.Read(buf)
		return err == nil && n == 0
	}, time.Second, time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	_, err = c.Read(buf)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.WriteAll([]byte("x")), ErrClosed)
}

func TestDial_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(addr)
	assert.Error(t, err)
}

func TestDial_BadAddress(t *testing.T) {
	_, err := Dial("not-an-address")
	assert.Error(t, err)
}
