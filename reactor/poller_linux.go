//go:build linux
// +build linux

// File: reactor/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) poller with an eventfd(2) used to interrupt EpollWait.

package reactor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/momentics/hioload-rt/api"
	"golang.org/x/sys/unix"
)

type epollPoller struct {
	epfd      int
	wakefd    int
	edge      bool
	raw       []unix.EpollEvent
	closeOnce sync.Once
}

// NewPoller constructs the epoll-backed Poller.
func NewPoller(maxEvents int, edgeTriggered bool) (Poller, error) {
	if maxEvents <= 0 {
		maxEvents = 128
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	p := &epollPoller{
		epfd:   epfd,
		wakefd: wakefd,
		edge:   edgeTriggered,
		raw:    make([]unix.EpollEvent, maxEvents),
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN}
	setToken(&ev, wakeToken)
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add eventfd: %w", err)
	}
	return p, nil
}

// The 64-bit token is split across the Fd and Pad words of epoll_data.
func setToken(ev *unix.EpollEvent, token uint64) {
	ev.Fd = int32(uint32(token))
	ev.Pad = int32(uint32(token >> 32))
}

func getToken(ev *unix.EpollEvent) uint64 {
	return uint64(uint32(ev.Fd)) | uint64(uint32(ev.Pad))<<32
}

func (p *epollPoller) epollEvents(interest api.Interest) uint32 {
	var events uint32
	if interest&api.Readable != 0 {
		events |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if interest&api.Writable != 0 {
		events |= unix.EPOLLOUT
	}
	if p.edge {
		events |= unix.EPOLLET
	}
	return events
}

func (p *epollPoller) Add(fd int, interest api.Interest, token uint64) error {
	if token == wakeToken {
		return fmt.Errorf("epoll ctl add fd %d: token %d is reserved", fd, token)
	}
	ev := unix.EpollEvent{Events: p.epollEvents(interest)}
	setToken(&ev, token)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	return nil
}

func (p *epollPoller) Delete(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", fd, err)
	}
	return nil
}

func (p *epollPoller) Wait(events []Event, timeoutMs int) (int, error) {
	limit := len(events)
	if limit > len(p.raw) {
		limit = len(p.raw)
	}
	if limit == 0 {
		return 0, nil
	}
	n, err := unix.EpollWait(p.epfd, p.raw[:limit], timeoutMs)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	out := 0
	for i := 0; i < n; i++ {
		raw := &p.raw[i]
		token := getToken(raw)
		if token == wakeToken {
			p.drainWake()
			continue
		}
		var ready api.Interest
		if raw.Events&unix.EPOLLIN != 0 {
			ready |= api.Readable
		}
		if raw.Events&unix.EPOLLOUT != 0 {
			ready |= api.Writable
		}
		events[out] = Event{
			Token:  token,
			Ready:  ready,
			Hangup: raw.Events&(unix.EPOLLHUP|unix.EPOLLRDHUP|unix.EPOLLERR) != 0,
		}
		out++
	}
	return out, nil
}

func (p *epollPoller) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (p *epollPoller) Wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	if _, err := unix.Write(p.wakefd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		return fmt.Errorf("eventfd write: %w", err)
	}
	return nil
}

func (p *epollPoller) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = errors.Join(unix.Close(p.wakefd), unix.Close(p.epfd))
	})
	return err
}
