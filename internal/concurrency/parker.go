// File: internal/concurrency/parker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parker blocks the owning executor thread until another goroutine unparks it.

package concurrency

// Parker holds at most one unpark permit. Unpark before Park makes the next
// Park return immediately, so a wake racing with a park decision is not lost.
type Parker struct {
	permit chan struct{}
}

// NewParker returns a parker with no permit.
func NewParker() *Parker {
	return &Parker{permit: make(chan struct{}, 1)}
}

// Park blocks until a permit is available and consumes it.
func (p *Parker) Park() {
	<-p.permit
}

// Unpark makes a permit available. Extra permits are coalesced.
func (p *Parker) Unpark() {
	select {
	case p.permit <- struct{}{}:
	default:
	}
}
