// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Waker registry plus the background readiness loop.

package reactor

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// Reactor translates OS readiness events into Waker invocations.
type Reactor struct {
	poller    Poller
	maxEvents int
	cpu       int

	mu     sync.Mutex
	wakers map[uint64]api.Waker
	fds    map[uint64]int

	nextID atomic.Uint64
	closed atomic.Bool
	done   chan struct{}

	// life guards poller control calls against Close releasing the poller.
	life     sync.RWMutex
	stopped  bool
	closeErr error

	logger  *logiface.Logger[logiface.Event]
	metrics *control.MetricsRegistry

	registered   atomic.Uint64
	deregistered atomic.Uint64
	events       atomic.Uint64
	orphans      atomic.Uint64
	wakes        atomic.Uint64
}

var (
	_ api.Registrar            = (*Reactor)(nil)
	_ api.GracefulShutdown     = (*Reactor)(nil)
	_ control.SnapshotProvider = (*Reactor)(nil)
)

// New creates a poller and starts the background loop.
func New(opts ...Option) (*Reactor, error) {
	c := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	p, err := c.factory(c.maxEvents, c.edgeTriggered)
	if err != nil {
		return nil, fmt.Errorf("reactor: %w", err)
	}
	r := &Reactor{
		poller:    p,
		maxEvents: c.maxEvents,
		cpu:       c.cpu,
		wakers:    make(map[uint64]api.Waker),
		fds:       make(map[uint64]int),
		done:      make(chan struct{}),
		logger:    c.logger,
		metrics:   c.metrics,
	}
	go r.loop()
	r.logger.Info().
		Int("max_events", c.maxEvents).
		Bool("edge_triggered", c.edgeTriggered).
		Log("reactor started")
	return r, nil
}

// Register asks the poller to watch fd for interest under id.
func (r *Reactor) Register(fd int, interest api.Interest, id uint64) error {
	r.life.RLock()
	defer r.life.RUnlock()
	if r.closed.Load() {
		return api.ErrReactorClosed
	}
	if err := r.poller.Add(fd, interest, id); err != nil {
		return fmt.Errorf("reactor: register id %d: %w", id, err)
	}
	r.mu.Lock()
	r.fds[id] = fd
	r.mu.Unlock()
	r.registered.Add(1)
	r.logger.Debug().
		Uint64("reg_id", id).
		Int("fd", fd).
		Stringer("interest", interest).
		Log("registered")
	return nil
}

// SetWaker installs or overwrites the waker for id.
func (r *Reactor) SetWaker(w api.Waker, id uint64) {
	r.mu.Lock()
	r.wakers[id] = w
	r.mu.Unlock()
}

// Deregister removes the watch on fd and the waker for id. Repeated calls for
// an id that is no longer registered return nil without touching the poller.
func (r *Reactor) Deregister(fd int, id uint64) error {
	r.mu.Lock()
	_, registered := r.fds[id]
	delete(r.fds, id)
	delete(r.wakers, id)
	r.mu.Unlock()
	if !registered {
		r.logger.Debug().
			Uint64("reg_id", id).
			Log("deregister of unknown id ignored")
		return nil
	}
	r.deregistered.Add(1)
	r.life.RLock()
	defer r.life.RUnlock()
	if r.closed.Load() {
		return nil
	}
	if err := r.poller.Delete(fd); err != nil {
		return fmt.Errorf("reactor: deregister id %d: %w", id, err)
	}
	r.logger.Debug().
		Uint64("reg_id", id).
		Int("fd", fd).
		Log("deregistered")
	return nil
}

// NextID returns a fresh registration id. Ids start at 1 and are never reused.
func (r *Reactor) NextID() uint64 {
	return r.nextID.Add(1)
}

// Len returns the number of live registrations.
func (r *Reactor) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fds)
}

// Close stops the loop and releases the poller. Once it has succeeded,
// further calls return the same result. If the loop cannot be woken the
// reactor stays open and Close may be retried.
func (r *Reactor) Close() error {
	r.life.Lock()
	defer r.life.Unlock()
	if r.stopped {
		return r.closeErr
	}
	select {
	case <-r.done:
	default:
		wasClosed := r.closed.Swap(true)
		if err := r.poller.Wake(); err != nil {
			r.closed.Store(wasClosed)
			return fmt.Errorf("reactor: close: %w", err)
		}
		<-r.done
	}
	r.closeErr = r.poller.Close()
	r.stopped = true
	clearDefault(r)
	r.logger.Info().Log("reactor stopped")
	return r.closeErr
}

// Shutdown is an alias for Close.
func (r *Reactor) Shutdown() error { return r.Close() }

// Done is closed once the background loop has exited.
func (r *Reactor) Done() <-chan struct{} { return r.done }

func (r *Reactor) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.done)
	restore, err := affinity.Pin(r.cpu)
	if err != nil {
		r.logger.Warning().
			Int("cpu", r.cpu).
			Err(err).
			Log("cpu pinning failed")
	}
	defer restore()

	events := make([]Event, r.maxEvents)
	for {
		n, err := r.poller.Wait(events, -1)
		if r.closed.Load() {
			return
		}
		if err != nil {
			r.logger.Crit().
				Err(err).
				Log("readiness wait failed, reactor loop exiting")
			r.closed.Store(true)
			return
		}
		for i := 0; i < n; i++ {
			r.dispatch(events[i])
		}
		r.publish()
	}
}

func (r *Reactor) dispatch(ev Event) {
	r.events.Add(1)
	r.mu.Lock()
	w, ok := r.wakers[ev.Token]
	r.mu.Unlock()
	if !ok {
		r.orphans.Add(1)
		r.logger.Trace().
			Uint64("reg_id", ev.Token).
			Log("event for unknown registration ignored")
		return
	}
	r.wakes.Add(1)
	w.Wake()
}

// Stats is a snapshot of reactor counters.
type Stats struct {
	Registered   uint64
	Deregistered uint64
	Events       uint64
	OrphanEvents uint64
	Wakes        uint64
}

// Stats returns the current counters.
func (r *Reactor) Stats() Stats {
	return Stats{
		Registered:   r.registered.Load(),
		Deregistered: r.deregistered.Load(),
		Events:       r.events.Load(),
		OrphanEvents: r.orphans.Load(),
		Wakes:        r.wakes.Load(),
	}
}

// Snapshot returns the counters keyed by metric name.
func (r *Reactor) Snapshot() map[string]uint64 {
	s := r.Stats()
	return map[string]uint64{
		"registered":    s.Registered,
		"deregistered":  s.Deregistered,
		"events":        s.Events,
		"orphan_events": s.OrphanEvents,
		"wakes":         s.Wakes,
	}
}

func (r *Reactor) publish() {
	if r.metrics == nil {
		return
	}
	r.metrics.Publish("reactor", r.Snapshot())
}
