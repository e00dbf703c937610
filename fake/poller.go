// File: fake/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"errors"
	"sync"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/reactor"
)

var (
	// ErrUnknownFd is returned by Poller.Delete for fds never added.
	ErrUnknownFd = errors.New("fake: fd not registered")
	// ErrPollerClosed is returned by Add and Delete after Close.
	ErrPollerClosed = errors.New("fake: poller closed")
)

// Poller is a reactor.Poller driven by Inject instead of the kernel.
type Poller struct {
	mu     sync.Mutex
	tokens map[int]uint64
	adds   int
	dels   int
	late   int
	wakeFn func() error
	events chan reactor.Event
	wake   chan struct{}
	closed chan struct{}
	once   sync.Once
}

var _ reactor.Poller = (*Poller)(nil)

// NewPoller returns an empty fake poller.
func NewPoller() *Poller {
	return &Poller{
		tokens: make(map[int]uint64),
		events: make(chan reactor.Event, 64),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Factory adapts p to reactor.WithPollerFactory.
func (p *Poller) Factory() reactor.PollerFactory {
	return func(int, bool) (reactor.Poller, error) { return p, nil }
}

// Add implements reactor.Poller.
func (p *Poller) Add(fd int, _ api.Interest, token uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isClosed() {
		p.late++
		return ErrPollerClosed
	}
	p.tokens[fd] = token
	p.adds++
	return nil
}

// Delete implements reactor.Poller.
func (p *Poller) Delete(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isClosed() {
		p.late++
		return ErrPollerClosed
	}
	if _, ok := p.tokens[fd]; !ok {
		return ErrUnknownFd
	}
	delete(p.tokens, fd)
	p.dels++
	return nil
}

// Inject queues a readiness event for token.
func (p *Poller) Inject(token uint64, ready api.Interest) {
	p.events <- reactor.Event{Token: token, Ready: ready}
}

// Token returns the token registered for fd.
func (p *Poller) Token(fd int) (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tokens[fd]
	return t, ok
}

// Counts returns the number of Add and Delete calls.
func (p *Poller) Counts() (adds, dels int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.adds, p.dels
}

// LateCalls returns the number of Add and Delete calls made after Close.
func (p *Poller) LateCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.late
}

// SetWakeError makes subsequent Wake calls return err. Nil restores normal
// behaviour.
func (p *Poller) SetWakeError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		p.wakeFn = nil
		return
	}
	p.wakeFn = func() error { return err }
}

func (p *Poller) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// Wait implements reactor.Poller. Only a blocking timeout is honoured.
func (p *Poller) Wait(events []reactor.Event, _ int) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	select {
	case ev := <-p.events:
		events[0] = ev
	case <-p.wake:
		return 0, nil
	case <-p.closed:
		return 0, nil
	}
	n := 1
	for n < len(events) {
		select {
		case ev := <-p.events:
			events[n] = ev
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

// Wake implements reactor.Poller.
func (p *Poller) Wake() error {
	p.mu.Lock()
	fn := p.wakeFn
	p.mu.Unlock()
	if fn != nil {
		return fn()
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close implements reactor.Poller.
func (p *Poller) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
