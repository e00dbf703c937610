// File: executor/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-rt/api"
)

// TaskID identifies a task within one Executor.
type TaskID = uint64

// task is the type-erased form stored in the task table.
type task interface {
	// poll reports true once the task resolved.
	poll(w api.Waker) bool
}

// futureTask is allocated once at spawn and only ever handled by pointer, so
// the future it owns never moves between polls.
type futureTask[T any] struct {
	fut    api.Future[T]
	handle *JoinHandle[T]
}

func (t *futureTask[T]) poll(w api.Waker) bool {
	p := t.fut.Poll(w)
	if !p.IsReady() {
		return false
	}
	t.handle.complete(p.Value())
	return true
}

// JoinHandle is a future resolving to the output of a spawned task. It may be
// awaited from any task, on any executor.
type JoinHandle[T any] struct {
	id       TaskID
	mu       sync.Mutex
	done     bool
	consumed bool
	value    T
	waiter   api.Waker
}

var _ api.Future[int] = (*JoinHandle[int])(nil)

// ID returns the spawned task's id.
func (h *JoinHandle[T]) ID() TaskID { return h.id }

// Done reports whether the task has resolved.
func (h *JoinHandle[T]) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Poll implements api.Future.
func (h *JoinHandle[T]) Poll(w api.Waker) api.Poll[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		panic(fmt.Errorf("join handle for task %d: %w", h.id, api.ErrPolledAfterReady))
	}
	if h.done {
		h.consumed = true
		return api.Ready(h.value)
	}
	h.waiter = w
	return api.Pending[T]()
}

func (h *JoinHandle[T]) complete(v T) {
	h.mu.Lock()
	h.done = true
	h.value = v
	w := h.waiter
	h.waiter = nil
	h.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// result returns the value without consuming the handle.
func (h *JoinHandle[T]) result() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value, h.done
}
