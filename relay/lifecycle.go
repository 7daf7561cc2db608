// File: relay/lifecycle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket lifecycle managers: create, connect or bind/listen, and register a
// descriptor with its reactor as one unit; tear everything down on failure.

package relay

import (
	"github.com/google/uuid"
	"github.com/momentics/statrelay/api"
)

const (
	roleClient = "client"
	roleServer = "server"
)

// setupErr makes sure err carries a setup step.
func setupErr(step string, err error) error {
	if api.CodeOf(err) == api.ErrCodeOK {
		return api.SetupError(step, err)
	}
	return err
}

// runtimeErr makes sure err carries a runtime operation.
func runtimeErr(op string, err error) error {
	if api.CodeOf(err) == api.ErrCodeOK {
		return api.RuntimeError(op, err)
	}
	return err
}

// Dialer is the client lifecycle manager.
type Dialer struct {
	port int
	s    settings
}

// NewDialer returns a Dialer targeting 127.0.0.1:port.
func NewDialer(port int, opts ...Option) *Dialer {
	return &Dialer{port: port, s: buildSettings(opts)}
}

func newDialer(port int, s settings) *Dialer {
	return &Dialer{port: port, s: s}
}

// Open connects h if it is invalid and registers the socket for write
// readiness. On failure h is left invalid and nothing acquired here remains
// open.
func (d *Dialer) Open(h *Handle) error {
	if h.Valid() {
		return nil
	}
	_ = h.teardown()

	sock, err := d.s.sockets.Dial(d.port)
	if err != nil {
		return d.failed(setupErr("connect", err))
	}
	poll, err := d.s.reactors(sock.FD(), api.EventWrite)
	if err != nil {
		_ = sock.Close()
		return d.failed(setupErr("reactor-register", err))
	}

	*h = Handle{conn: sock, poll: poll, id: uuid.NewString()}
	d.s.metrics.Connected(roleClient)
	d.s.log.Info().
		Str("conn", h.id).
		Int("port", d.port).
		Int("fd", sock.FD()).
		Msg("connection established")
	d.s.log.Debug().
		Str("conn", h.id).
		Int("reactor_fd", poll.FD()).
		Stringer("events", api.EventWrite).
		Msg("descriptor registered")
	return nil
}

func (d *Dialer) failed(err error) error {
	step := api.OpOf(err)
	d.s.metrics.Error(step)
	d.s.log.Error().
		Err(err).
		Str("step", step).
		Int("port", d.port).
		Msg("unable to connect to collector")
	return err
}

// Binder is the server lifecycle manager.
type Binder struct {
	port int
	s    settings
}

// NewBinder returns a Binder for 127.0.0.1:port. Port 0 binds an ephemeral
// port.
func NewBinder(port int, opts ...Option) *Binder {
	return &Binder{port: port, s: buildSettings(opts)}
}

func newBinder(port int, s settings) *Binder {
	return &Binder{port: port, s: s}
}

// Open binds and listens if h is invalid, registering the listening
// descriptor for read readiness. On failure h is left invalid.
func (b *Binder) Open(h *Handle) error {
	if h.Valid() {
		return nil
	}
	_ = h.teardown()

	ln, err := b.s.sockets.Listen(b.port, b.s.backlog)
	if err != nil {
		return b.failed(setupErr("bind", err))
	}
	poll, err := b.s.reactors(ln.FD(), api.EventRead)
	if err != nil {
		_ = ln.Close()
		return b.failed(setupErr("reactor-register", err))
	}

	*h = Handle{ln: ln, poll: poll, id: uuid.NewString()}
	b.s.log.Info().
		Str("conn", h.id).
		Int("port", ln.Port()).
		Int("backlog", b.s.backlog).
		Msg("listening")
	b.s.log.Debug().
		Str("conn", h.id).
		Int("fd", ln.FD()).
		Int("reactor_fd", poll.FD()).
		Stringer("events", api.EventRead).
		Msg("descriptor registered")
	return nil
}

// accept takes a pending peer from the listening descriptor and moves the
// reactor registration onto it. On failure the peer, if any, is closed and
// the error is returned without touching the rest of h.
func (b *Binder) accept(h *Handle) error {
	peer, err := h.ln.Accept()
	if err != nil {
		return setupErr("accept", err)
	}
	if err := h.poll.Rearm(peer.FD()); err != nil {
		_ = peer.Close()
		return setupErr("reactor-register", err)
	}
	h.conn = peer
	h.id = uuid.NewString()
	b.s.metrics.Connected(roleServer)
	b.s.log.Info().
		Str("conn", h.id).
		Int("fd", peer.FD()).
		Msg("peer accepted")
	return nil
}

// release closes the accepted peer and re-arms the reactor on the listening
// descriptor.
func (b *Binder) release(h *Handle) error {
	if err := h.poll.Rearm(h.ln.FD()); err != nil {
		return runtimeErr("rearm", err)
	}
	if err := h.conn.Close(); err != nil {
		b.s.log.Warn().Err(err).Str("conn", h.id).Msg("closing peer descriptor")
	}
	b.s.log.Info().Str("conn", h.id).Msg("peer closed")
	h.conn = nil
	b.s.metrics.Disconnected()
	return nil
}

func (b *Binder) failed(err error) error {
	step := api.OpOf(err)
	b.s.metrics.Error(step)
	b.s.log.Error().
		Err(err).
		Str("step", step).
		Int("port", b.port).
		Msg("unable to start server")
	return err
}
