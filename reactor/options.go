// File: reactor/options.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/control"
)

// Option configures a Reactor.
type Option func(c *config)

type config struct {
	maxEvents     int
	edgeTriggered bool
	cpu           int
	factory       PollerFactory
	logger        *logiface.Logger[logiface.Event]
	metrics       *control.MetricsRegistry
}

func defaultConfig() config {
	return config{
		maxEvents:     128,
		edgeTriggered: true,
		cpu:           -1,
		factory:       NewPoller,
	}
}

// WithMaxEvents bounds the number of events taken per Wait call.
func WithMaxEvents(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEvents = n
		}
	}
}

// WithLevelTriggered switches the poller from edge to level notification.
func WithLevelTriggered() Option {
	return func(c *config) { c.edgeTriggered = false }
}

// WithEdgeTriggered sets the notification mode explicitly.
func WithEdgeTriggered(edge bool) Option {
	return func(c *config) { c.edgeTriggered = edge }
}

// WithCPU pins the reactor loop thread to a logical CPU.
func WithCPU(cpu int) Option {
	return func(c *config) { c.cpu = cpu }
}

// WithPollerFactory replaces the platform poller.
func WithPollerFactory(f PollerFactory) Option {
	return func(c *config) {
		if f != nil {
			c.factory = f
		}
	}
}

// WithLogger attaches a structured logger. Nil disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics publishes reactor counters into reg after every event batch.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(c *config) { c.metrics = reg }
}
