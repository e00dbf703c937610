// File: executor/waker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// wakeTarget is the part of an executor that wakers may touch from any
// goroutine.
type wakeTarget struct {
	ready  concurrency.ReadyQueue
	parker *concurrency.Parker
	wakes  atomic.Uint64
}

// Waker pushes its task id back onto the owning executor's ready queue and
// unparks the executor thread. It is an immutable value; copies are
// interchangeable.
type Waker struct {
	id     TaskID
	target *wakeTarget
}

var _ api.Waker = Waker{}

// TaskID returns the id of the task this waker schedules.
func (w Waker) TaskID() TaskID { return w.id }

// Wake schedules the task. Waking a task that already completed is a no-op
// observed by the executor as a stale id.
func (w Waker) Wake() {
	if w.target == nil {
		return
	}
	w.target.ready.Push(w.id)
	w.target.wakes.Add(1)
	w.target.parker.Unpark()
}
