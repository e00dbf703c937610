// File: executor/waker_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"sync"
	"testing"

	"github.com/momentics/hioload-rt/internal/concurrency"
	"github.com/stretchr/testify/assert"
)

func TestWaker_ZeroValueIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Waker{}.Wake() })
}

func TestWaker_PushesAndUnparks(t *testing.T) {
	target := &wakeTarget{
		ready:  concurrency.NewReadyQueue(concurrency.FIFO),
		parker: concurrency.NewParker(),
	}
	w := Waker{id: 7, target: target}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Wake()
		}()
	}
	wg.Wait()

	target.parker.Park() // permit left by the wakes
	assert.Equal(t, 10, target.ready.Len())
	assert.Equal(t, uint64(10), target.wakes.Load())
	id, ok := target.ready.Pop()
	assert.True(t, ok)
	assert.Equal(t, TaskID(7), id)
	assert.Equal(t, TaskID(7), w.TaskID())
}
