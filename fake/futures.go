// File: fake/futures.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rt/api"
)

// WakeScheduler decides when a pending Countdown wakes its task.
type WakeScheduler func(w api.Waker)

// WakeInline wakes before Poll returns.
func WakeInline(w api.Waker) { w.Wake() }

// WakeAfter wakes from another goroutine after a random delay below limit.
func WakeAfter(limit time.Duration) WakeScheduler {
	return func(w api.Waker) {
		d := time.Duration(0)
		if limit > 0 {
			d = rand.N(limit)
		}
		time.AfterFunc(d, w.Wake)
	}
}

// Countdown returns Pending k times, scheduling a wake each time, then
// resolves to its value.
type Countdown[T any] struct {
	remaining int
	value     T
	schedule  WakeScheduler
	polls     atomic.Int64
	done      bool
}

// NewCountdown builds a Countdown. A nil schedule means WakeInline.
func NewCountdown[T any](k int, v T, schedule WakeScheduler) *Countdown[T] {
	if schedule == nil {
		schedule = WakeInline
	}
	return &Countdown[T]{remaining: k, value: v, schedule: schedule}
}

// Poll implements api.Future.
func (c *Countdown[T]) Poll(w api.Waker) api.Poll[T] {
	if c.done {
		panic(fmt.Errorf("fake.Countdown: %w", api.ErrPolledAfterReady))
	}
	c.polls.Add(1)
	if c.remaining <= 0 {
		c.done = true
		return api.Ready(c.value)
	}
	c.remaining--
	c.schedule(w)
	return api.Pending[T]()
}

// Polls reports how many times Poll ran.
func (c *Countdown[T]) Polls() int { return int(c.polls.Load()) }

// Manual stays pending until Fire is called from anywhere.
type Manual[T any] struct {
	mu    sync.Mutex
	waker api.Waker
	value T
	fired bool
	done  bool
	polls atomic.Int64
}

// NewManual returns an unfired Manual.
func NewManual[T any]() *Manual[T] { return &Manual[T]{} }

// Poll implements api.Future.
func (m *Manual[T]) Poll(w api.Waker) api.Poll[T] {
	m.polls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		panic(fmt.Errorf("fake.Manual: %w", api.ErrPolledAfterReady))
	}
	if !m.fired {
		m.waker = w
		return api.Pending[T]()
	}
	m.done = true
	return api.Ready(m.value)
}

// Fire resolves the future with v and wakes the last stored waker.
func (m *Manual[T]) Fire(v T) {
	m.mu.Lock()
	m.value, m.fired = v, true
	w := m.waker
	m.waker = nil
	m.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Polls reports how many times Poll ran.
func (m *Manual[T]) Polls() int { return int(m.polls.Load()) }

// Never is always pending and never wakes anyone.
type Never[T any] struct {
	polls atomic.Int64
}

// Poll implements api.Future.
func (n *Never[T]) Poll(api.Waker) api.Poll[T] {
	n.polls.Add(1)
	return api.Pending[T]()
}

// Polls reports how many times Poll ran.
func (n *Never[T]) Polls() int { return int(n.polls.Load()) }

// Panicking panics with its value on the first poll.
type Panicking[T any] struct {
	Value any
}

// Poll implements api.Future.
func (p Panicking[T]) Poll(api.Waker) api.Poll[T] { panic(p.Value) }
