// File: api/poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll-based future contract shared by the executor, the reactor and leaf
// I/O futures.

package api

// Poll is the outcome of a single Future.Poll call: either ready with a value
// or pending.
type Poll[T any] struct {
	value T
	ready bool
}

// Ready returns a resolved Poll carrying v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

// Pending returns an unresolved Poll.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether the poll resolved.
func (p Poll[T]) IsReady() bool { return p.ready }

// Value returns the resolved value, or the zero value while pending.
func (p Poll[T]) Value() T { return p.value }

// Future is a unit of asynchronous work driven by repeated, non-blocking
// Poll calls.
//
// Poll must never block. If the work cannot complete synchronously, Poll has
// to arrange for some external event to invoke w.Wake, then return Pending.
// A future that returns Pending without arranging a wake is never polled
// again. Only the most recently supplied waker needs to be woken.
//
// Polling a future after it returned Ready is a programming error;
// implementations panic with an error wrapping ErrPolledAfterReady.
type Future[T any] interface {
	Poll(w Waker) Poll[T]
}

// FutureFunc adapts a plain function to the Future interface.
type FutureFunc[T any] func(w Waker) Poll[T]

// Poll calls f(w).
func (f FutureFunc[T]) Poll(w Waker) Poll[T] { return f(w) }

// Waker marks one task runnable again and unblocks the thread that owns it.
// Wake is safe to call any number of times, from any goroutine, including
// after the task has completed.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// NoopWaker ignores every wake. Useful for driving futures by hand.
var NoopWaker Waker = WakerFunc(func() {})
