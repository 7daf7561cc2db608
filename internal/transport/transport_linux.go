// internal/transport/transport_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux loopback sockets over raw descriptors.

package transport

import (
	"github.com/momentics/statrelay/api"
	"golang.org/x/sys/unix"
)

// Conn is a blocking stream descriptor.
type Conn struct {
	fd int
}

// FD returns the descriptor, or -1 once closed.
func (c *Conn) FD() int { return c.fd }

// Read performs one read(2), retrying only on EINTR. EAGAIN is reported as
// api.ErrWouldBlock; a zero count with a nil error is end-of-stream.
func (c *Conn) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(c.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, api.ErrWouldBlock
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// Write performs one write(2), retrying only on EINTR. Short counts are
// returned as-is and EAGAIN counts as a zero-byte write.
func (c *Conn) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(c.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, nil
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// Close releases the descriptor. Closing twice is a no-op.
func (c *Conn) Close() error {
	if c.fd < 0 {
		return nil
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}

// Listener is a listening stream descriptor.
type Listener struct {
	Conn
	port int
}

// Port returns the bound port.
func (l *Listener) Port() int { return l.port }

// Accept takes one pending peer connection.
func (l *Listener) Accept() (api.Socket, error) {
	for {
		nfd, _, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, api.SetupError("accept", err)
		}
		return &Conn{fd: nfd}, nil
	}
}

func newStreamSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, api.SetupError("socket", err)
	}
	return fd, nil
}

func dial(port int) (*Conn, error) {
	if err := checkPort(port, false); err != nil {
		return nil, api.SetupError("resolve", err)
	}
	fd, err := newStreamSocket()
	if err != nil {
		return nil, err
	}
	addr, err := loopbackAddr()
	if err != nil {
		_ = unix.Close(fd)
		return nil, api.SetupError("resolve", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrInet4{Port: port, Addr: addr}); err != nil {
		_ = unix.Close(fd)
		return nil, api.SetupError("connect", err)
	}
	return &Conn{fd: fd}, nil
}

func listen(port, backlog int) (*Listener, error) {
	if err := checkPort(port, true); err != nil {
		return nil, api.SetupError("bind", err)
	}
	fd, err := newStreamSocket()
	if err != nil {
		return nil, err
	}
	fail := func(step string, err error) (*Listener, error) {
		_ = unix.Close(fd)
		return nil, api.SetupError(step, err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail("setsockopt", err)
	}
	addr, err := loopbackAddr()
	if err != nil {
		return fail("resolve", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port, Addr: addr}); err != nil {
		return fail("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return fail("listen", err)
	}
	bound := port
	if sa, err := unix.Getsockname(fd); err == nil {
		if in4, ok := sa.(*unix.SockaddrInet4); ok {
			bound = in4.Port
		}
	}
	return &Listener{Conn: Conn{fd: fd}, port: bound}, nil
}
