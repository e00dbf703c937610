// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reactor surface consumed by readiness-driven leaf futures.

package api

import "strings"

// Interest is the set of readiness conditions a registration watches.
type Interest uint8

const (
	// Readable fires when the descriptor has data to read or the peer hung up.
	Readable Interest = 1 << iota
	// Writable fires when the descriptor accepts writes.
	Writable
)

// String returns a human-readable form, e.g. "readable|writable".
func (i Interest) String() string {
	var parts []string
	if i&Readable != 0 {
		parts = append(parts, "readable")
	}
	if i&Writable != 0 {
		parts = append(parts, "writable")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Registrar correlates OS-level readiness watches with wakers.
//
// A leaf future calls Register once with a fresh id from NextID, installs
// its current waker with SetWaker (again after every would-block outcome,
// since edge-triggered pollers only report transitions), and calls
// Deregister exactly once when the operation concludes.
type Registrar interface {
	// Register watches fd for interest under the registration id.
	Register(fd int, interest Interest, id uint64) error
	// SetWaker installs or overwrites the waker for id. Last write wins.
	SetWaker(w Waker, id uint64)
	// Deregister removes the OS watch for fd and the waker stored under id.
	// Calling it again for an id that is no longer registered is a no-op.
	Deregister(fd int, id uint64) error
	// NextID returns a fresh registration id, never reused.
	NextID() uint64
}
