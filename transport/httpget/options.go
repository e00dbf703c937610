// File: transport/httpget/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpget

import (
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
)

// DefaultAddr is the server address used by Get.
const DefaultAddr = "127.0.0.1:8080"

// Option configures a Future.
type Option func(f *Future)

// WithReactor routes registrations to reg instead of the process-wide reactor.
func WithReactor(reg api.Registrar) Option {
	return func(f *Future) { f.reg = reg }
}

// WithHost overrides the Host header (default "localhost").
func WithHost(host string) Option {
	return func(f *Future) {
		if host != "" {
			f.host = host
		}
	}
}

// WithReadBufferSize sets the per-read scratch buffer size (default 4096).
func WithReadBufferSize(n int) Option {
	return func(f *Future) {
		if n > 0 {
			f.bufSize = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(f *Future) { f.logger = logger }
}
