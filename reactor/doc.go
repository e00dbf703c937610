// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor bridges OS readiness notifications into task wakers.
//
// A Reactor owns one Poller (epoll on Linux) and a background goroutine,
// locked to its own OS thread, that blocks in Poller.Wait without a timeout.
// Every delivered event carries the registration id it was added with; the
// loop looks that id up in the waker registry and wakes the stored waker.
// Events for ids that were already deregistered are ignored.
//
// The process-wide instance is created once with Start and reached with
// Default. New builds independent instances for explicit wiring and tests.
package reactor
