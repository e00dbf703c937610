// File: executor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package executor implements a cooperative, single-threaded scheduler that
// multiplexes many poll-based tasks onto one OS thread.
//
// BlockOn drives a root future, plus everything spawned while it runs, to
// completion. Each loop iteration pops a task id from the ready queue,
// removes the task from the table, polls it with a fresh waker and either
// drops it (ready) or stores it back (pending). When nothing is ready but
// tasks remain, the thread parks until some waker fires.
//
// The ready queue pops the most recently woken id first (LIFO). Use
// WithReadyOrder(FIFO) for push-order fairness.
//
// The task table is owned by the goroutine running BlockOn: Spawn may be
// called before BlockOn or from inside a task's Poll, but not concurrently
// from other goroutines. Waker.Wake is the only cross-thread entry point.
package executor
