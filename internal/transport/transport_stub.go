//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without raw loopback descriptor support.

package transport

import "github.com/momentics/statrelay/api"

type Conn struct{}

type Listener struct{ Conn }

func dial(int) (*Conn, error) {
	return nil, api.SetupError("socket", api.ErrNotSupported)
}

func listen(int, int) (*Listener, error) {
	return nil, api.SetupError("socket", api.ErrNotSupported)
}

func (c *Conn) FD() int                   { return -1 }
func (c *Conn) Read([]byte) (int, error)  { return 0, api.ErrNotSupported }
func (c *Conn) Write([]byte) (int, error) { return 0, api.ErrNotSupported }
func (c *Conn) Close() error              { return nil }
func (l *Listener) Port() int             { return 0 }

func (l *Listener) Accept() (api.Socket, error) {
	return nil, api.SetupError("accept", api.ErrNotSupported)
}
