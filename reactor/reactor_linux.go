//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation.

package reactor

import (
	"fmt"

	"github.com/momentics/statrelay/api"
	"golang.org/x/sys/unix"
)

// Epoll is a level-triggered epoll instance with one registered descriptor.
type Epoll struct {
	epfd   int
	fd     int
	events api.EventMask
	ready  [1]unix.EpollEvent
}

// New creates an epoll instance and registers fd for events, which must be
// exactly one of api.EventRead or api.EventWrite.
func New(fd int, events api.EventMask) (*Epoll, error) {
	if !validEvents(events) {
		return nil, api.SetupError("reactor-register",
			fmt.Errorf("%w: event class %s", api.ErrInvalidArgument, events))
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, api.SetupError("reactor-create", err)
	}
	r := &Epoll{epfd: epfd, fd: -1, events: events}
	if err := r.add(fd); err != nil {
		_ = unix.Close(epfd)
		return nil, api.SetupError("reactor-register", err)
	}
	return r, nil
}

func (r *Epoll) mask() uint32 {
	if r.events == api.EventWrite {
		return unix.EPOLLOUT
	}
	return unix.EPOLLIN
}

func (r *Epoll) add(fd int) error {
	ev := unix.EpollEvent{Events: r.mask(), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd=%d: %w", fd, err)
	}
	r.fd = fd
	return nil
}

// FD returns the epoll descriptor, or -1 once closed.
func (r *Epoll) FD() int { return r.epfd }

// Watched returns the registered descriptor, or -1 when none is.
func (r *Epoll) Watched() int { return r.fd }

// Wait blocks until the watched descriptor is ready.
// EINTR is reported as a spurious wake.
func (r *Epoll) Wait() (int, error) {
	if r.epfd < 0 {
		return 0, api.RuntimeError("wait", api.ErrHandleInvalid)
	}
	n, err := unix.EpollWait(r.epfd, r.ready[:], -1)
	if err == unix.EINTR {
		return 0, nil
	}
	if err != nil {
		return 0, api.RuntimeError("wait", err)
	}
	return n, nil
}

// Rearm moves the registration from the current descriptor to fd.
func (r *Epoll) Rearm(fd int) error {
	if r.epfd < 0 {
		return api.RuntimeError("rearm", api.ErrHandleInvalid)
	}
	if r.fd >= 0 {
		if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, r.fd, nil); err != nil {
			return api.RuntimeError("rearm", fmt.Errorf("epoll ctl del fd=%d: %w", r.fd, err))
		}
		r.fd = -1
	}
	if err := r.add(fd); err != nil {
		return api.RuntimeError("rearm", err)
	}
	return nil
}

// Close releases the epoll descriptor. Closing twice is a no-op.
func (r *Epoll) Close() error {
	if r.epfd < 0 {
		return nil
	}
	err := unix.Close(r.epfd)
	r.epfd, r.fd = -1, -1
	return err
}
