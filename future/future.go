// File: future/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package future

import (
	"fmt"
	"slices"

	"github.com/momentics/hioload-rt/api"
)

// Pair is the result of Join2.
type Pair[A, B any] struct {
	First  A
	Second B
}

type ready[T any] struct {
	v    T
	done bool
}

// Ready resolves to v on the first poll.
func Ready[T any](v T) api.Future[T] { return &ready[T]{v: v} }

func (f *ready[T]) Poll(api.Waker) api.Poll[T] {
	if f.done {
		panic(fmt.Errorf("future.Ready: %w", api.ErrPolledAfterReady))
	}
	f.done = true
	return api.Ready(f.v)
}

type fromFunc[T any] struct {
	fn   func(api.Waker) api.Poll[T]
	done bool
}

// FromFunc wraps a poll function, adding the polled-after-ready guard.
func FromFunc[T any](fn func(api.Waker) api.Poll[T]) api.Future[T] {
	return &fromFunc[T]{fn: fn}
}

func (f *fromFunc[T]) Poll(w api.Waker) api.Poll[T] {
	if f.done {
		panic(fmt.Errorf("future.FromFunc: %w", api.ErrPolledAfterReady))
	}
	p := f.fn(w)
	f.done = p.IsReady()
	return p
}

type mapped[T, U any] struct {
	inner api.Future[T]
	fn    func(T) U
	done  bool
}

// Map applies fn to the value of f once it resolves.
func Map[T, U any](f api.Future[T], fn func(T) U) api.Future[U] {
	return &mapped[T, U]{inner: f, fn: fn}
}

func (m *mapped[T, U]) Poll(w api.Waker) api.Poll[U] {
	if m.done {
		panic(fmt.Errorf("future.Map: %w", api.ErrPolledAfterReady))
	}
	p := m.inner.Poll(w)
	if !p.IsReady() {
		return api.Pending[U]()
	}
	m.done = true
	return api.Ready(m.fn(p.Value()))
}

type andThen[T, U any] struct {
	first  api.Future[T]
	next   func(T) api.Future[U]
	second api.Future[U]
	done   bool
}

// AndThen runs f, feeds its value to next and then drives the returned
// future. Both stages are polled within the same call when the first one
// resolves immediately.
func AndThen[T, U any](f api.Future[T], next func(T) api.Future[U]) api.Future[U] {
	return &andThen[T, U]{first: f, next: next}
}

func (a *andThen[T, U]) Poll(w api.Waker) api.Poll[U] {
	if a.done {
		panic(fmt.Errorf("future.AndThen: %w", api.ErrPolledAfterReady))
	}
	if a.second == nil {
		p := a.first.Poll(w)
		if !p.IsReady() {
			return api.Pending[U]()
		}
		a.second = a.next(p.Value())
		a.first = nil
	}
	p := a.second.Poll(w)
	a.done = p.IsReady()
	return p
}

type join2[A, B any] struct {
	a     api.Future[A]
	b     api.Future[B]
	out   Pair[A, B]
	aDone bool
	bDone bool
	done  bool
}

// Join2 polls a and b until both resolve.
func Join2[A, B any](a api.Future[A], b api.Future[B]) api.Future[Pair[A, B]] {
	return &join2[A, B]{a: a, b: b}
}

func (j *join2[A, B]) Poll(w api.Waker) api.Poll[Pair[A, B]] {
	if j.done {
		panic(fmt.Errorf("future.Join2: %w", api.ErrPolledAfterReady))
	}
	if !j.aDone {
		if p := j.a.Poll(w); p.IsReady() {
			j.out.First, j.aDone = p.Value(), true
		}
	}
	if !j.bDone {
		if p := j.b.Poll(w); p.IsReady() {
			j.out.Second, j.bDone = p.Value(), true
		}
	}
	if !j.aDone || !j.bDone {
		return api.Pending[Pair[A, B]]()
	}
	j.done = true
	return api.Ready(j.out)
}

type joinAll[T any] struct {
	futs    []api.Future[T]
	out     []T
	pending int
	done    bool
}

// JoinAll polls every future until all resolve. Results keep input order.
// The argument slice is copied and left untouched.
func JoinAll[T any](futs ...api.Future[T]) api.Future[[]T] {
	return &joinAll[T]{
		futs:    slices.Clone(futs),
		out:     make([]T, len(futs)),
		pending: len(futs),
	}
}

func (j *joinAll[T]) Poll(w api.Waker) api.Poll[[]T] {
	if j.done {
		panic(fmt.Errorf("future.JoinAll: %w", api.ErrPolledAfterReady))
	}
	for i, f := range j.futs {
		if f == nil {
			continue
		}
		if p := f.Poll(w); p.IsReady() {
			j.out[i] = p.Value()
			j.futs[i] = nil
			j.pending--
		}
	}
	if j.pending > 0 {
		return api.Pending[[]T]()
	}
	j.done = true
	return api.Ready(j.out)
}
