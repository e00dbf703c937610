// File: transport/httpget/httpget.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpget

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/transport"
	"github.com/momentics/hioload-rt/pool"
	"github.com/momentics/hioload-rt/reactor"
)

type state uint8

const (
	stateUnstarted state = iota
	stateAwaitingReadable
	stateDone
)

// Request renders the fixed request template.
func Request(path, host string) string {
	return fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", path, host)
}

// Future performs one GET and resolves to the raw response text.
//
// Fatal conditions (connect failure, registration failure, read errors other
// than would-block, polling after completion) panic with a wrapped error.
type Future struct {
	addr    string
	path    string
	host    string
	bufSize int
	reg     api.Registrar
	logger  *logiface.Logger[logiface.Event]

	state   state
	conn    *transport.Conn
	guard   *reactor.Registration
	buffer  []byte
	scratch []byte
}

var _ api.Future[string] = (*Future)(nil)

// New returns an unstarted GET of path against addr. Nothing happens until
// the first poll.
func New(addr, path string, opts ...Option) *Future {
	f := &Future{
		addr:    addr,
		path:    path,
		host:    "localhost",
		bufSize: 4096,
	}
	for _, o := range opts {
		if o != nil {
			o(f)
		}
	}
	return f
}

// Get is New(DefaultAddr, path, opts...).
func Get(path string, opts ...Option) *Future {
	return New(DefaultAddr, path, opts...)
}

// Path returns the requested path.
func (f *Future) Path() string { return f.path }

// Poll implements api.Future.
func (f *Future) Poll(w api.Waker) api.Poll[string] {
	switch f.state {
	case stateDone:
		panic(fmt.Errorf("httpget %s: %w", f.path, api.ErrPolledAfterReady))
	case stateUnstarted:
		f.start(w)
	}
	return f.drain(w)
}

func (f *Future) registrar() api.Registrar {
	if f.reg == nil {
		f.reg = reactor.Default()
	}
	return f.reg
}

func (f *Future) start(w api.Waker) {
	reg := f.registrar()
	f.logger.Debug().
		Str("addr", f.addr).
		Str("path", f.path).
		Log("first poll, starting operation")

	conn, err := transport.Dial(f.addr)
	if err != nil {
		panic(fmt.Errorf("httpget %s: %w", f.path, err))
	}
	if err := conn.WriteAll([]byte(Request(f.path, f.host))); err != nil {
		conn.Close()
		panic(fmt.Errorf("httpget %s: %w", f.path, err))
	}
	if err := conn.SetNonblock(true); err != nil {
		conn.Close()
		panic(fmt.Errorf("httpget %s: %w", f.path, err))
	}
	guard, err := reactor.Acquire(reg, conn.Fd(), api.Readable)
	if err != nil {
		conn.Close()
		panic(fmt.Errorf("httpget %s: %w", f.path, err))
	}
	guard.SetWaker(w)

	f.conn = conn
	f.guard = guard
	f.scratch = pool.ForSize(f.bufSize).GetBuffer()
	f.state = stateAwaitingReadable
}

func (f *Future) drain(w api.Waker) api.Poll[string] {
	for {
		n, err := f.conn.Read(f.scratch)
		switch {
		case err == nil && n == 0:
			f.finish()
			return api.Ready(lossyString(f.buffer))
		case err == nil:
			f.buffer = append(f.buffer, f.scratch[:n]...)
		case errors.Is(err, transport.ErrWouldBlock):
			f.guard.SetWaker(w)
			return api.Pending[string]()
		case errors.Is(err, transport.ErrInterrupted):
		default:
			f.Close()
			panic(fmt.Errorf("httpget %s: %w", f.path, err))
		}
	}
}

func (f *Future) finish() {
	if err := f.guard.Release(); err != nil {
		f.logger.Warning().
			Uint64("reg_id", f.guard.ID()).
			Err(err).
			Log("deregister failed")
	}
	f.conn.Close()
	f.releaseScratch()
	f.state = stateDone
	f.logger.Debug().
		Str("path", f.path).
		Int("bytes", len(f.buffer)).
		Log("response complete")
}

// Close abandons an in-flight request: the reactor registration is released
// and the socket closed. Safe to call at any time, any number of times.
func (f *Future) Close() error {
	var err error
	if f.guard != nil {
		err = f.guard.Release()
	}
	if f.conn != nil {
		err = errors.Join(err, f.conn.Close())
	}
	f.releaseScratch()
	f.state = stateDone
	return err
}

func (f *Future) releaseScratch() {
	if f.scratch != nil {
		pool.ForSize(f.bufSize).PutBuffer(f.scratch)
		f.scratch = nil
	}
}

// lossyString decodes b as UTF-8, writing one U+FFFD for each maximal
// subpart of an ill-formed sequence.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[:size])
			b = b[size:]
			continue
		}
		sb.WriteRune(utf8.RuneError)
		b = b[invalidPrefix(b):]
	}
	return sb.String()
}

// invalidPrefix returns the length, at least 1, of the ill-formed sequence
// starting at b[0] that a single replacement character stands for.
func invalidPrefix(b []byte) int {
	n := 0
	lo, hi := byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c == 0xED:
		n, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		n, lo = 4, 0x90
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	case c == 0xF4:
		n, hi = 4, 0x8F
	default:
		return 1
	}
	i := 1
	for ; i < n && i < len(b); i++ {
		if b[i] < lo || b[i] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return i
}
