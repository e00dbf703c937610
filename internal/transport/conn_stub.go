//go:build !linux
// +build !linux

// File: internal/transport/conn_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"fmt"

	"github.com/momentics/hioload-rt/api"
)

// Conn is unavailable on this platform.
type Conn struct{}

// Dial always fails on this platform.
func Dial(addr string) (*Conn, error) {
	return nil, fmt.Errorf("dial %s: %w", addr, api.ErrNotSupported)
}

func (c *Conn) Fd() int                  { return -1 }
func (c *Conn) SetNonblock(bool) error   { return api.ErrNotSupported }
func (c *Conn) WriteAll([]byte) error    { return api.ErrNotSupported }
func (c *Conn) Read([]byte) (int, error) { return 0, api.ErrNotSupported }
func (c *Conn) Close() error             { return nil }
