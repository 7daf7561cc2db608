// File: relay/receiver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server receive path: accept one peer at a time and forward whatever bytes
// each read returns, verbatim, to the output stream.

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/momentics/statrelay/api"
)

// ReceiveStatus tells the dump loop what one Receive call did.
type ReceiveStatus int

const (
	// Idle means nothing was forwarded this cycle.
	Idle ReceiveStatus = iota
	// Forwarded means bytes were read and written to the output.
	Forwarded
	// Accepted means a peer was accepted and is now watched.
	Accepted
	// PeerClosed means the peer reached end-of-stream; the listening
	// descriptor is watched again.
	PeerClosed
)

func (s ReceiveStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Forwarded:
		return "forwarded"
	case Accepted:
		return "accepted"
	case PeerClosed:
		return "peer-closed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Receiver owns the server connection handle and the receive buffer.
type Receiver struct {
	binder *Binder
	h      Handle
	out    io.Writer
	buf    []byte
	s      settings
}

// NewReceiver returns a Receiver for 127.0.0.1:port writing to out. It does
// not bind until Open or the first Receive.
func NewReceiver(port int, out io.Writer, opts ...Option) *Receiver {
	s := buildSettings(opts)
	return &Receiver{
		binder: newBinder(port, s),
		out:    out,
		buf:    make([]byte, s.bufferSize),
		s:      s,
	}
}

// Handle exposes the connection handle for inspection.
func (r *Receiver) Handle() *Handle { return &r.h }

// Port returns the bound port, or 0 while the handle is invalid.
func (r *Receiver) Port() int {
	if !r.h.Valid() {
		return 0
	}
	return r.h.ln.Port()
}

// Open binds and listens if the handle is invalid.
func (r *Receiver) Open() error {
	return r.binder.Open(&r.h)
}

// Wait blocks until the watched descriptor is readable. A wait failure tears
// the handle down.
func (r *Receiver) Wait() (int, error) {
	if !r.h.Valid() {
		return 0, api.RuntimeError("wait", api.ErrHandleInvalid)
	}
	n, err := r.h.poll.Wait()
	if err != nil {
		return 0, r.fail("wait", err)
	}
	return n, nil
}

// Receive performs one step of the receive path. With no peer it accepts
// one; otherwise it does a single read of up to the buffer capacity and
// forwards the bytes. Every path returns an explicit status; a non-nil error
// means the handle has been torn down.
func (r *Receiver) Receive(ctx context.Context) (ReceiveStatus, error) {
	if err := ctx.Err(); err != nil {
		return Idle, err
	}
	if !r.h.Valid() {
		if err := r.Open(); err != nil {
			return Idle, err
		}
	}

	if r.h.conn == nil {
		if err := r.binder.accept(&r.h); err != nil {
			return Idle, r.fail(api.OpOf(err), err)
		}
		return Accepted, nil
	}

	n, err := r.h.conn.Read(r.buf)
	if errors.Is(err, api.ErrWouldBlock) {
		return Idle, nil
	}
	if err != nil {
		return Idle, r.fail("read", err)
	}
	if n == 0 {
		if err := r.binder.release(&r.h); err != nil {
			return Idle, r.fail("rearm", err)
		}
		return PeerClosed, nil
	}

	written, err := r.out.Write(r.buf[:n])
	if err != nil {
		return Idle, r.fail("output", err)
	}
	if written != n {
		short := fmt.Errorf("%w: %d of %d bytes", api.ErrShortWrite, written, n)
		return Idle, r.fail("output", api.NewError(api.ErrCodeShortWrite, "output", short))
	}
	r.s.metrics.BytesReceived(n)
	return Forwarded, nil
}

func (r *Receiver) fail(op string, err error) error {
	err = runtimeErr(op, err)
	r.s.log.Error().
		Err(err).
		Str("op", op).
		Str("conn", r.h.id).
		Int("fd", r.h.FD()).
		Msg("receive failed, dropping connection")
	r.s.metrics.Error(op)
	r.s.metrics.Disconnected()
	if cerr := r.h.teardown(); cerr != nil {
		r.s.log.Debug().Err(cerr).Msg("teardown")
	}
	return err
}

// Close tears down the handle if it is valid.
func (r *Receiver) Close() error {
	if !r.h.Valid() {
		return nil
	}
	r.s.metrics.Disconnected()
	return r.h.teardown()
}
