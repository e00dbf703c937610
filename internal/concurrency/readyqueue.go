// File: internal/concurrency/readyqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-guarded ready queues of task ids. Many producers (spawn, wakers, the
// reactor goroutine), a single consumer (the executor loop). Locks are held
// only for the push or pop itself.

package concurrency

import (
	"fmt"
	"strings"
	"sync"

	"github.com/eapache/queue"
)

// Order selects the pop discipline of a ReadyQueue.
type Order int

const (
	// LIFO pops the most recently pushed id first.
	LIFO Order = iota
	// FIFO pops ids in push order.
	FIFO
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder maps "lifo"/"fifo" (case-insensitive) to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lifo":
		return LIFO, nil
	case "fifo":
		return FIFO, nil
	default:
		return LIFO, fmt.Errorf("unknown ready order %q", s)
	}
}

// ReadyQueue is a shared sequence of task ids awaiting poll.
type ReadyQueue interface {
	Push(id uint64)
	Pop() (id uint64, ok bool)
	Len() int
}

// NewReadyQueue returns an empty queue with the given discipline.
func NewReadyQueue(order Order) ReadyQueue {
	if order == FIFO {
		return &fifoQueue{q: queue.New()}
	}
	return &stackQueue{}
}

type stackQueue struct {
	mu  sync.Mutex
	ids []uint64
}

func (s *stackQueue) Push(id uint64) {
	s.mu.Lock()
	s.ids = append(s.ids, id)
	s.mu.Unlock()
}

func (s *stackQueue) Pop() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.ids)
	if n == 0 {
		return 0, false
	}
	id := s.ids[n-1]
	s.ids = s.ids[:n-1]
	return id, true
}

func (s *stackQueue) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// fifoQueue wraps a ring-buffer deque.
type fifoQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func (f *fifoQueue) Push(id uint64) {
	f.mu.Lock()
	f.q.Add(id)
	f.mu.Unlock()
}

func (f *fifoQueue) Pop() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.q.Length() == 0 {
		return 0, false
	}
	return f.q.Remove().(uint64), true
}

func (f *fifoQueue) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.q.Length()
}
