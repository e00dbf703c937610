// File: executor/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// Order selects the ready-queue discipline.
type Order = concurrency.Order

const (
	LIFO = concurrency.LIFO
	FIFO = concurrency.FIFO
)

// ParseOrder maps "lifo"/"fifo" to an Order.
func ParseOrder(s string) (Order, error) { return concurrency.ParseOrder(s) }

// Option configures an Executor.
type Option func(c *config)

type config struct {
	name            string
	order           concurrency.Order
	lockOSThread    bool
	cpu             int
	continueOnPanic bool
	logger          *logiface.Logger[logiface.Event]
	metrics         *control.MetricsRegistry
}

func defaultConfig() config {
	return config{
		name:         "executor",
		order:        concurrency.LIFO,
		lockOSThread: true,
		cpu:          -1,
	}
}

// WithName labels log lines and metric keys ("<name>.polls", ...).
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithReadyOrder selects the ready queue discipline. LIFO is the default.
func WithReadyOrder(order Order) Option {
	return func(c *config) { c.order = order }
}

// WithLockOSThread controls whether BlockOn pins its goroutine to the current
// OS thread for the duration of the run. Enabled by default.
func WithLockOSThread(lock bool) Option {
	return func(c *config) { c.lockOSThread = lock }
}

// WithCPU pins the BlockOn thread to a logical CPU for the duration of the
// call. Implies WithLockOSThread(true). Negative disables pinning.
func WithCPU(cpu int) Option {
	return func(c *config) {
		c.cpu = cpu
		if cpu >= 0 {
			c.lockOSThread = true
		}
	}
}

// WithContinueOnPanic makes a panicking non-root task get logged and dropped
// instead of aborting BlockOn. A panicking root task always aborts.
func WithContinueOnPanic() Option {
	return func(c *config) { c.continueOnPanic = true }
}

// WithLogger attaches a structured logger. Nil disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics publishes executor counters into reg after every drain cycle.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(c *config) { c.metrics = reg }
}
