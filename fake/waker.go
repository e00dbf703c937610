// File: fake/waker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import "sync/atomic"

// RecordingWaker counts wakes and signals C without blocking.
type RecordingWaker struct {
	n atomic.Int64
	C chan struct{}
}

// NewRecordingWaker returns a waker whose C has room for one signal.
func NewRecordingWaker() *RecordingWaker {
	return &RecordingWaker{C: make(chan struct{}, 1)}
}

// Wake implements api.Waker.
func (r *RecordingWaker) Wake() {
	r.n.Add(1)
	select {
	case r.C <- struct{}{}:
	default:
	}
}

// Count returns the number of Wake calls.
func (r *RecordingWaker) Count() int { return int(r.n.Load()) }
