// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"github.com/eapache/queue"
	"github.com/momentics/statrelay/api"
)

// WaitStep scripts one Wait call.
type WaitStep struct {
	N   int
	Err error
}

// Reactor is a scriptable api.Reactor. Unscripted waits report one ready
// descriptor.
type Reactor struct {
	fd      int
	watched int
	events  api.EventMask
	waits   *queue.Queue
	closed  bool

	WaitCalls int
	Rearms    []int
}

// NewReactor creates a fake reactor numbered fd watching watched.
func NewReactor(fd, watched int, events api.EventMask) *Reactor {
	return &Reactor{fd: fd, watched: watched, events: events, waits: queue.New()}
}

// ScriptWait appends wait outcomes.
func (r *Reactor) ScriptWait(steps ...WaitStep) *Reactor {
	for _, st := range steps {
		r.waits.Add(st)
	}
	return r
}

// FD implements api.Reactor.
func (r *Reactor) FD() int {
	if r.closed {
		return -1
	}
	return r.fd
}

// Watched returns the registered descriptor.
func (r *Reactor) Watched() int { return r.watched }

// Events returns the registered event class.
func (r *Reactor) Events() api.EventMask { return r.events }

// Closed reports whether Close was called.
func (r *Reactor) Closed() bool { return r.closed }

// Wait implements api.Reactor.
func (r *Reactor) Wait() (int, error) {
	r.WaitCalls++
	if r.closed {
		return 0, ErrClosed
	}
	if r.waits.Length() == 0 {
		return 1, nil
	}
	st := r.waits.Remove().(WaitStep)
	return st.N, st.Err
}

// Rearm implements api.Reactor.
func (r *Reactor) Rearm(fd int) error {
	if r.closed {
		return ErrClosed
	}
	r.Rearms = append(r.Rearms, fd)
	r.watched = fd
	return nil
}

// Close implements api.Reactor.
func (r *Reactor) Close() error {
	r.closed = true
	return nil
}

// ReactorFactory hands out fake reactors. Prepare, when set, scripts each
// new reactor before it is returned.
type ReactorFactory struct {
	errs    *queue.Queue
	nextFD  int
	Prepare func(*Reactor)
	Created []*Reactor
}

// NewReactorFactory creates an empty factory.
func NewReactorFactory() *ReactorFactory {
	return &ReactorFactory{errs: queue.New(), nextFD: 100}
}

// QueueErr makes the next New fail with err.
func (f *ReactorFactory) QueueErr(err error) *ReactorFactory {
	f.errs.Add(err)
	return f
}

// New matches api.ReactorFactory.
func (f *ReactorFactory) New(fd int, events api.EventMask) (api.Reactor, error) {
	if f.errs.Length() > 0 {
		return nil, f.errs.Remove().(error)
	}
	f.nextFD++
	r := NewReactor(f.nextFD, fd, events)
	if f.Prepare != nil {
		f.Prepare(r)
	}
	f.Created = append(f.Created, r)
	return r, nil
}

// Last returns the most recently created reactor, or nil.
func (f *ReactorFactory) Last() *Reactor {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}

var _ api.Reactor = (*Reactor)(nil)
