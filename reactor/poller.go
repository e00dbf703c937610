// File: reactor/poller.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness multiplexer contract.

package reactor

import "github.com/momentics/hioload-rt/api"

// wakeToken is reserved for the poller's internal wake descriptor.
// Registration ids start at 1.
const wakeToken uint64 = 0

// Event is one readiness notification returned by Poller.Wait.
type Event struct {
	Token  uint64       // registration id supplied to Add
	Ready  api.Interest // readiness reported by the OS
	Hangup bool         // peer closed or error condition
}

// Poller is the OS readiness multiplexer used by a Reactor.
//
// Add, Delete and Wake may be called from any goroutine; Wait is only called
// from the reactor loop.
type Poller interface {
	// Add watches fd for interest, tagging its events with token.
	Add(fd int, interest api.Interest, token uint64) error
	// Delete stops watching fd.
	Delete(fd int) error
	// Wait blocks until events arrive, Wake is called, or timeoutMs elapses
	// (negative blocks indefinitely). It returns the number of events stored.
	Wait(events []Event, timeoutMs int) (int, error)
	// Wake interrupts a blocked Wait.
	Wake() error
	// Close releases the OS resources.
	Close() error
}

// PollerFactory builds a poller. edgeTriggered selects edge over level
// notification where the backend supports both.
type PollerFactory func(maxEvents int, edgeTriggered bool) (Poller, error)
