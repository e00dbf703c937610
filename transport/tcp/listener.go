// File: transport/tcp/listener.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
)

// ErrBadRequest is returned by ParsePath for anything not shaped /<ms>/<msg>.
var ErrBadRequest = errors.New("tcp: bad delay request")

// ListenerConfig holds configuration for the delay listener.
type ListenerConfig struct {
	Addr     string        // TCP address to bind, e.g. "127.0.0.1:8080"
	MaxDelay time.Duration // upper clamp for requested delays, 0 means none
	Logger   *logiface.Logger[logiface.Event]
}

// DelayServer answers GET /<ms>/<message> after ms milliseconds.
type DelayServer struct {
	cfg    ListenerConfig
	ln     net.Listener
	wg     sync.WaitGroup
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	quit   chan struct{}
}

// Listen binds cfg.Addr. Use port 0 and Addr() for tests.
func Listen(cfg ListenerConfig) (*DelayServer, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("tcp listen failed: %w", err)
	}
	return &DelayServer{
		cfg:   cfg,
		ln:    ln,
		conns: make(map[net.Conn]struct{}),
		quit:  make(chan struct{}),
	}, nil
}

// Start is Listen followed by a background Serve.
func Start(cfg ListenerConfig) (*DelayServer, error) {
	s, err := Listen(cfg)
	if err != nil {
		return nil, err
	}
	go s.Serve()
	return s, nil
}

// Addr returns the bound address.
func (s *DelayServer) Addr() string { return s.ln.Addr().String() }

// Serve runs the accept loop until Close.
func (s *DelayServer) Serve() error {
	s.cfg.Logger.Info().Str("addr", s.Addr()).Log("delay server listening")
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.cfg.Logger.Err().Err(err).Log("accept error")
			continue
		}
		if !s.track(conn) {
			conn.Close()
			return nil
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting, drops open connections and waits for handlers.
func (s *DelayServer) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.quit)
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	err := s.ln.Close()
	s.wg.Wait()
	return err
}

func (s *DelayServer) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *DelayServer) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *DelayServer) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.cfg.Logger.Err().Str("panic", fmt.Sprint(r)).Log("panic in connection")
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	br := bufio.NewReader(conn)

	reqLine, err := br.ReadString('\n')
	if err != nil {
		return
	}
	// Read HTTP headers until CRLF line.
	for {
		line, err := br.ReadString('\n')
		if err != nil || line == "\r\n" || line == "\n" {
			break
		}
	}
	conn.SetReadDeadline(time.Time{})

	fields := strings.Fields(reqLine)
	if len(fields) < 2 || fields[0] != "GET" {
		writeResponse(conn, "400 Bad Request", "bad request\n")
		return
	}
	delay, msg, err := ParsePath(fields[1])
	if err != nil {
		writeResponse(conn, "404 Not Found", err.Error()+"\n")
		return
	}
	if s.cfg.MaxDelay > 0 && delay > s.cfg.MaxDelay {
		delay = s.cfg.MaxDelay
	}
	s.cfg.Logger.Debug().
		Str("path", fields[1]).
		Int("delay_ms", int(delay/time.Millisecond)).
		Log("delaying response")
	select {
	case <-time.After(delay):
		writeResponse(conn, "200 OK", msg)
	case <-s.quit:
	}
}

// ParsePath splits "/<ms>/<message>" into its delay and message.
func ParsePath(path string) (time.Duration, string, error) {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return 0, "", ErrBadRequest
	}
	msStr, msg, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, "", ErrBadRequest
	}
	ms, err := strconv.ParseUint(msStr, 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return time.Duration(ms) * time.Millisecond, msg, nil
}

func writeResponse(conn net.Conn, status, body string) {
	response := fmt.Sprintf("HTTP/1.1 %s\r\n"+
		"Content-Type: text/plain\r\n"+
		"Content-Length: %d\r\n"+
		"Connection: close\r\n\r\n%s", status, len(body), body)
	conn.Write([]byte(response))
}
