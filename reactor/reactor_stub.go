//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import "github.com/momentics/statrelay/api"

// Epoll is unavailable outside Linux.
type Epoll struct{}

// New returns api.ErrNotSupported on this platform.
func New(fd int, events api.EventMask) (*Epoll, error) {
	return nil, api.SetupError("reactor-create", api.ErrNotSupported)
}

func (r *Epoll) FD() int            { return -1 }
func (r *Epoll) Watched() int       { return -1 }
func (r *Epoll) Wait() (int, error) { return 0, api.RuntimeError("wait", api.ErrNotSupported) }
func (r *Epoll) Rearm(int) error    { return api.RuntimeError("rearm", api.ErrNotSupported) }
func (r *Epoll) Close() error       { return nil }
