// File: relay/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import (
	"errors"

	"github.com/momentics/statrelay/api"
)

// Handle pairs a stream descriptor with the reactor watching it. Both halves
// are valid together or neither is; only the lifecycle manager and teardown
// mutate it.
//
// On the server side ln is the listening descriptor and conn, once a peer is
// accepted, the connected one. The reactor always watches exactly one of them.
type Handle struct {
	conn api.Socket
	ln   api.Listener
	poll api.Reactor
	id   string
}

func (h *Handle) watched() api.Socket {
	if h.conn != nil {
		return h.conn
	}
	if h.ln != nil {
		return h.ln
	}
	return nil
}

// Valid reports whether both the descriptor and the reactor are live.
func (h *Handle) Valid() bool {
	return h != nil && h.poll != nil && h.watched() != nil
}

// FD returns the watched descriptor, or -1 when the handle is invalid.
func (h *Handle) FD() int {
	if !h.Valid() {
		return -1
	}
	return h.watched().FD()
}

// ReactorFD returns the readiness-handle descriptor, or -1 when the handle
// is invalid.
func (h *Handle) ReactorFD() int {
	if !h.Valid() {
		return -1
	}
	return h.poll.FD()
}

// ID identifies the current connection in diagnostics.
func (h *Handle) ID() string {
	if !h.Valid() {
		return ""
	}
	return h.id
}

// Listening reports whether the reactor watches the listening descriptor.
func (h *Handle) Listening() bool {
	return h.Valid() && h.conn == nil && h.ln != nil
}

// State is the debug probe view of a handle.
type State struct {
	FD        int    `json:"fd"`
	ReactorFD int    `json:"reactor_fd"`
	Conn      string `json:"conn,omitempty"`
	Listening bool   `json:"listening"`
}

// State snapshots the handle for debug probes.
func (h *Handle) State() State {
	return State{FD: h.FD(), ReactorFD: h.ReactorFD(), Conn: h.ID(), Listening: h.Listening()}
}

// teardown closes every half and leaves the handle invalid. It is safe on an
// already invalid handle.
func (h *Handle) teardown() error {
	var errs []error
	if h.conn != nil {
		errs = append(errs, h.conn.Close())
	}
	if h.ln != nil {
		errs = append(errs, h.ln.Close())
	}
	if h.poll != nil {
		errs = append(errs, h.poll.Close())
	}
	*h = Handle{}
	return errors.Join(errs...)
}
