// File: reactor/singleton.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide reactor instance.

package reactor

import (
	"sync"

	"github.com/momentics/hioload-rt/api"
)

var global struct {
	sync.Mutex
	r *Reactor
}

// Start creates the process-wide reactor. While it is running, further calls
// return api.ErrReactorRunning. After Close, Start may be called again.
func Start(opts ...Option) (*Reactor, error) {
	global.Lock()
	defer global.Unlock()
	if global.r != nil {
		return nil, api.ErrReactorRunning
	}
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	global.r = r
	return r, nil
}

// Default returns the process-wide reactor and panics with api.ErrNoReactor
// if Start has not been called.
func Default() *Reactor {
	r, err := Lookup()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the process-wide reactor or api.ErrNoReactor.
func Lookup() (*Reactor, error) {
	global.Lock()
	defer global.Unlock()
	if global.r == nil {
		return nil, api.ErrNoReactor
	}
	return global.r, nil
}

func clearDefault(r *Reactor) {
	global.Lock()
	if global.r == r {
		global.r = nil
	}
	global.Unlock()
}
