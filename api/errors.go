// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values for hioload-rt.

package api

import "errors"

var (
	// ErrPolledAfterReady is raised (as a panic value) when a future is polled
	// again after it already returned Ready.
	ErrPolledAfterReady = errors.New("future polled after completion")

	// ErrReactorRunning is returned by a second attempt to start the
	// process-wide reactor.
	ErrReactorRunning = errors.New("reactor already running")

	// ErrNoReactor indicates the process-wide reactor was used before Start.
	ErrNoReactor = errors.New("called outside a runtime context: reactor not started")

	// ErrReactorClosed is returned by operations on a closed reactor.
	ErrReactorClosed = errors.New("reactor is closed")

	// ErrExecutorRunning is returned by a nested BlockOn on the same executor.
	ErrExecutorRunning = errors.New("executor is already running")

	// ErrNotSupported indicates the platform has no poller backend.
	ErrNotSupported = errors.New("operation not supported")
)
