// File: internal/transport/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import "errors"

var (
	// ErrWouldBlock reports that a non-blocking read found no data.
	ErrWouldBlock = errors.New("operation would block")

	// ErrInterrupted reports a system call interrupted before any transfer.
	ErrInterrupted = errors.New("interrupted system call")

	// ErrClosed is returned by operations on a closed Conn.
	ErrClosed = errors.New("connection is closed")
)
