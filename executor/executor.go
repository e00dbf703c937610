// File: executor/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// Executor is a per-thread cooperative scheduler. The zero value is not
// usable; construct with New.
type Executor struct {
	tasks   map[TaskID]task
	nextID  TaskID
	target  *wakeTarget
	running atomic.Bool

	name            string
	lockOSThread    bool
	cpu             int
	continueOnPanic bool
	logger          *logiface.Logger[logiface.Event]
	metrics         *control.MetricsRegistry

	spawned    atomic.Uint64
	polls      atomic.Uint64
	completed  atomic.Uint64
	staleWakes atomic.Uint64
	parks      atomic.Uint64
	panics     atomic.Uint64
}

var _ control.SnapshotProvider = (*Executor)(nil)

// New constructs an idle executor.
func New(opts ...Option) *Executor {
	c := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return &Executor{
		tasks: make(map[TaskID]task),
		target: &wakeTarget{
			ready:  concurrency.NewReadyQueue(c.order),
			parker: concurrency.NewParker(),
		},
		name:            c.name,
		lockOSThread:    c.lockOSThread,
		cpu:             c.cpu,
		continueOnPanic: c.continueOnPanic,
		logger:          c.logger,
		metrics:         c.metrics,
	}
}

// Spawn stores f under a fresh task id and marks it ready. The returned
// handle resolves to f's output. Only call it on the executor goroutine or
// while the executor is idle.
func Spawn[T any](e *Executor, f api.Future[T]) *JoinHandle[T] {
	id := e.nextID
	e.nextID++
	h := &JoinHandle[T]{id: id}
	e.tasks[id] = &futureTask[T]{fut: f, handle: h}
	e.spawned.Add(1)
	e.target.ready.Push(id)
	e.logger.Trace().
		Str("executor", e.name).
		Uint64("task_id", id).
		Log("task spawned")
	return h
}

// BlockOn spawns root and runs the scheduling loop on the calling goroutine
// until the task table is empty, then returns root's output.
//
// A panic raised while polling a task aborts the loop and is returned as a
// *TaskPanicError (see WithContinueOnPanic). BlockOn is not re-entrant.
func BlockOn[T any](e *Executor, root api.Future[T]) (T, error) {
	var zero T
	if !e.running.CompareAndSwap(false, true) {
		return zero, api.ErrExecutorRunning
	}
	defer e.running.Store(false)

	if e.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		restore, err := affinity.Pin(e.cpu)
		if err != nil {
			e.logger.Warning().
				Str("executor", e.name).
				Int("cpu", e.cpu).
				Err(err).
				Log("cpu pinning failed")
		}
		defer restore()
	}

	h := Spawn(e, root)
	if err := e.run(h.id); err != nil {
		return zero, err
	}
	v, _ := h.result()
	return v, nil
}

func (e *Executor) run(rootID TaskID) error {
	for {
		for {
			id, ok := e.target.ready.Pop()
			if !ok {
				break
			}
			t, ok := e.tasks[id]
			if !ok {
				e.staleWakes.Add(1)
				e.logger.Trace().
					Str("executor", e.name).
					Uint64("task_id", id).
					Log("stale wake ignored")
				continue
			}
			delete(e.tasks, id)

			done, err := e.pollTask(id, t)
			if err != nil {
				e.panics.Add(1)
				e.logger.Err().
					Str("executor", e.name).
					Uint64("task_id", id).
					Err(err).
					Log("task aborted")
				if !e.continueOnPanic || id == rootID {
					if n := e.dropAll(); n > 0 {
						e.logger.Warning().
							Str("executor", e.name).
							Int("dropped", n).
							Log("dropped tasks of aborted run")
					}
					e.publish()
					return err
				}
				continue
			}
			if done {
				e.completed.Add(1)
				continue
			}
			e.tasks[id] = t
		}

		e.publish()

		pending := len(e.tasks)
		if pending == 0 {
			e.logger.Debug().
				Str("executor", e.name).
				Log("all tasks are finished")
			return nil
		}

		e.logger.Debug().
			Str("executor", e.name).
			Int("pending", pending).
			Log("pending tasks, sleeping until notified")
		e.parks.Add(1)
		e.target.parker.Park()
	}
}

// dropAll discards every stored task and queued wake. Handles of dropped
// tasks never resolve.
func (e *Executor) dropAll() int {
	n := len(e.tasks)
	clear(e.tasks)
	for {
		if _, ok := e.target.ready.Pop(); !ok {
			break
		}
	}
	return n
}

func (e *Executor) pollTask(id TaskID, t task) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TaskPanicError{TaskID: id, Value: r, Stack: debug.Stack()}
		}
	}()
	e.polls.Add(1)
	return t.poll(Waker{id: id, target: e.target}), nil
}

// Len returns the number of stored (pending, not currently polled) tasks.
// Only meaningful on the executor goroutine or while it is idle.
func (e *Executor) Len() int { return len(e.tasks) }

// Running reports whether BlockOn is active.
func (e *Executor) Running() bool { return e.running.Load() }

// Stats is a snapshot of executor counters.
type Stats struct {
	Spawned    uint64
	Polls      uint64
	Completed  uint64
	Wakes      uint64
	StaleWakes uint64
	Parks      uint64
	Panics     uint64
}

// Stats returns the current counters. Safe from any goroutine.
func (e *Executor) Stats() Stats {
	return Stats{
		Spawned:    e.spawned.Load(),
		Polls:      e.polls.Load(),
		Completed:  e.completed.Load(),
		Wakes:      e.target.wakes.Load(),
		StaleWakes: e.staleWakes.Load(),
		Parks:      e.parks.Load(),
		Panics:     e.panics.Load(),
	}
}

// Snapshot returns the counters keyed by metric name.
func (e *Executor) Snapshot() map[string]uint64 {
	s := e.Stats()
	return map[string]uint64{
		"spawned":     s.Spawned,
		"polls":       s.Polls,
		"completed":   s.Completed,
		"wakes":       s.Wakes,
		"stale_wakes": s.StaleWakes,
		"parks":       s.Parks,
		"panics":      s.Panics,
	}
}

func (e *Executor) publish() {
	if e.metrics == nil {
		return
	}
	e.metrics.Publish(e.name, e.Snapshot())
}
