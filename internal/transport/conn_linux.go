//go:build linux
// +build linux

// File: internal/transport/conn_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Conn is a TCP socket driven directly through its file descriptor.
type Conn struct {
	fd     int
	closed atomic.Bool
}

// Dial resolves addr ("host:port") and connects a blocking TCP socket.
func Dial(addr string) (*Conn, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	sa, family, err := sockaddr(tcpAddr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return &Conn{fd: fd}, nil
}

func sockaddr(addr *net.TCPAddr) (unix.Sockaddr, int, error) {
	if ip4 := addr.IP.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		copy(sa.Addr[:], ip4)
		return sa, unix.AF_INET, nil
	}
	if ip6 := addr.IP.To16(); ip6 != nil {
		sa := &unix.SockaddrInet6{Port: addr.Port}
		copy(sa.Addr[:], ip6)
		return sa, unix.AF_INET6, nil
	}
	return nil, 0, fmt.Errorf("unsupported address %s", addr)
}

// connect completes a blocking connect. An interrupted connect keeps going in
// the kernel, so wait for writability and read SO_ERROR instead of retrying.
func connect(fd int, sa unix.Sockaddr) error {
	err := unix.Connect(fd, sa)
	if err == nil || !errors.Is(err, unix.EINTR) {
		return err
	}
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	for {
		if _, err := unix.Poll(pfd, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		break
	}
	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if soErr != 0 {
		return unix.Errno(soErr)
	}
	return nil
}

// Fd returns the underlying descriptor.
func (c *Conn) Fd() int { return c.fd }

// SetNonblock toggles O_NONBLOCK.
func (c *Conn) SetNonblock(nonblocking bool) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := unix.SetNonblock(c.fd, nonblocking); err != nil {
		return fmt.Errorf("set nonblocking: %w", err)
	}
	return nil
}

// WriteAll writes p completely. Intended for use before switching to
// non-blocking mode.
func (c *Conn) WriteAll(p []byte) error {
	for len(p) > 0 {
		if c.closed.Load() {
			return ErrClosed
		}
		n, err := unix.Write(c.fd, p)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EAGAIN) {
				return fmt.Errorf("write: %w", ErrWouldBlock)
			}
			return fmt.Errorf("write: %w", err)
		}
		p = p[n:]
	}
	return nil
}

// Read reads into p. It returns (0, nil) once the peer closed, ErrWouldBlock
// when a non-blocking socket has no data, and ErrInterrupted on EINTR.
func (c *Conn) Read(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	n, err := unix.Read(c.fd, p)
	if err != nil {
		switch {
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrWouldBlock
		case errors.Is(err, unix.EINTR):
			return 0, ErrInterrupted
		default:
			return 0, fmt.Errorf("read: %w", err)
		}
	}
	return n, nil
}

// Close closes the descriptor once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(c.fd)
}
