// File: reactor/registration.go
// Author: momentics <momentics@gmail.com>
//
// Scoped registration guard.

package reactor

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
)

// Registration ties one fd watch to one fresh registration id and
// deregisters it exactly once, however many times Release is called.
type Registration struct {
	reg      api.Registrar
	fd       int
	id       uint64
	released atomic.Bool
}

// Acquire registers fd for interest under reg.NextID().
func Acquire(reg api.Registrar, fd int, interest api.Interest) (*Registration, error) {
	id := reg.NextID()
	if err := reg.Register(fd, interest, id); err != nil {
		return nil, err
	}
	return &Registration{reg: reg, fd: fd, id: id}, nil
}

// ID returns the registration id.
func (g *Registration) ID() uint64 { return g.id }

// Fd returns the watched descriptor.
func (g *Registration) Fd() int { return g.fd }

// SetWaker installs w for this registration. Ignored after Release.
func (g *Registration) SetWaker(w api.Waker) {
	if g.released.Load() {
		return
	}
	g.reg.SetWaker(w, g.id)
}

// Released reports whether Release has run.
func (g *Registration) Released() bool { return g.released.Load() }

// Release deregisters the watch. Only the first call has an effect.
func (g *Registration) Release() error {
	if !g.released.CompareAndSwap(false, true) {
		return nil
	}
	return g.reg.Deregister(g.fd, g.id)
}
