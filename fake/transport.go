// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, scriptable behavior for sockets and reactors.

package fake

import (
	"errors"

	"github.com/eapache/queue"
	"github.com/momentics/statrelay/api"
)

// ErrClosed is returned by operations on a closed fake descriptor.
var ErrClosed = errors.New("fake: descriptor closed")

// WriteStep scripts one Write call. N < 0 accepts the whole buffer.
type WriteStep struct {
	N   int
	Err error
}

// ReadStep scripts one Read call.
type ReadStep struct {
	Data []byte
	Err  error
}

// Socket is a scriptable api.Socket. Unscripted writes accept everything;
// unscripted reads report end-of-stream.
type Socket struct {
	fd      int
	writes  *queue.Queue
	reads   *queue.Queue
	written []byte
	calls   int
	closed  bool
}

// NewSocket creates a fake descriptor numbered fd.
func NewSocket(fd int) *Socket {
	return &Socket{fd: fd, writes: queue.New(), reads: queue.New()}
}

// ScriptWrite appends write outcomes.
func (s *Socket) ScriptWrite(steps ...WriteStep) *Socket {
	for _, st := range steps {
		s.writes.Add(st)
	}
	return s
}

// ScriptRead appends read outcomes.
func (s *Socket) ScriptRead(steps ...ReadStep) *Socket {
	for _, st := range steps {
		s.reads.Add(st)
	}
	return s
}

// FD implements api.Socket.
func (s *Socket) FD() int {
	if s.closed {
		return -1
	}
	return s.fd
}

// Write implements api.Socket.
func (s *Socket) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.calls++
	n := len(p)
	if s.writes.Length() > 0 {
		st := s.writes.Remove().(WriteStep)
		if st.Err != nil {
			return 0, st.Err
		}
		if st.N >= 0 && st.N < n {
			n = st.N
		}
	}
	s.written = append(s.written, p[:n]...)
	return n, nil
}

// Read implements api.Socket.
func (s *Socket) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.reads.Length() == 0 {
		return 0, nil
	}
	st := s.reads.Remove().(ReadStep)
	if st.Err != nil {
		return 0, st.Err
	}
	return copy(p, st.Data), nil
}

// Close implements api.Socket.
func (s *Socket) Close() error {
	s.closed = true
	return nil
}

// Written returns every byte accepted so far.
func (s *Socket) Written() []byte { return append([]byte(nil), s.written...) }

// WriteCalls returns the number of Write calls on the open descriptor.
func (s *Socket) WriteCalls() int { return s.calls }

// Closed reports whether Close was called.
func (s *Socket) Closed() bool { return s.closed }

// Listener is a scriptable api.Listener.
type Listener struct {
	Socket
	port    int
	accepts *queue.Queue
}

// NewListener creates a fake listening descriptor bound to port.
func NewListener(fd, port int) *Listener {
	return &Listener{Socket: *NewSocket(fd), port: port, accepts: queue.New()}
}

// QueuePeer makes the next Accept return peer.
func (l *Listener) QueuePeer(peer api.Socket) *Listener {
	l.accepts.Add(peer)
	return l
}

// QueueAcceptErr makes the next Accept fail with err.
func (l *Listener) QueueAcceptErr(err error) *Listener {
	l.accepts.Add(err)
	return l
}

// Port implements api.Listener.
func (l *Listener) Port() int { return l.port }

// Accept implements api.Listener.
func (l *Listener) Accept() (api.Socket, error) {
	if l.closed {
		return nil, ErrClosed
	}
	if l.accepts.Length() == 0 {
		return nil, errors.New("fake: no pending connection")
	}
	switch v := l.accepts.Remove().(type) {
	case error:
		return nil, v
	case api.Socket:
		return v, nil
	}
	return nil, errors.New("fake: bad accept script")
}

// SocketFactory is a scriptable api.SocketFactory. Queued results are
// consumed in order; when the queue is empty Dial creates a fresh Socket
// and Listen a fresh Listener.
type SocketFactory struct {
	dials   *queue.Queue
	listens *queue.Queue
	nextFD  int

	Dialed    []*Socket
	Listeners []*Listener
	DialCalls int
}

// NewSocketFactory creates an empty factory.
func NewSocketFactory() *SocketFactory {
	return &SocketFactory{dials: queue.New(), listens: queue.New(), nextFD: 10}
}

// QueueDial makes the next Dial return s.
func (f *SocketFactory) QueueDial(s *Socket) *SocketFactory {
	f.dials.Add(s)
	return f
}

// QueueDialErr makes the next Dial fail with err.
func (f *SocketFactory) QueueDialErr(err error) *SocketFactory {
	f.dials.Add(err)
	return f
}

// QueueListen makes the next Listen return l.
func (f *SocketFactory) QueueListen(l *Listener) *SocketFactory {
	f.listens.Add(l)
	return f
}

// QueueListenErr makes the next Listen fail with err.
func (f *SocketFactory) QueueListenErr(err error) *SocketFactory {
	f.listens.Add(err)
	return f
}

// Dial implements api.SocketFactory.
func (f *SocketFactory) Dial(port int) (api.Socket, error) {
	f.DialCalls++
	if f.dials.Length() > 0 {
		switch v := f.dials.Remove().(type) {
		case error:
			return nil, v
		case *Socket:
			f.Dialed = append(f.Dialed, v)
			return v, nil
		}
	}
	f.nextFD++
	s := NewSocket(f.nextFD)
	f.Dialed = append(f.Dialed, s)
	return s, nil
}

// Listen implements api.SocketFactory.
func (f *SocketFactory) Listen(port, backlog int) (api.Listener, error) {
	if f.listens.Length() > 0 {
		switch v := f.listens.Remove().(type) {
		case error:
			return nil, v
		case *Listener:
			f.Listeners = append(f.Listeners, v)
			return v, nil
		}
	}
	f.nextFD++
	l := NewListener(f.nextFD, port)
	f.Listeners = append(f.Listeners, l)
	return l, nil
}

var (
	_ api.Listener      = (*Listener)(nil)
	_ api.SocketFactory = (*SocketFactory)(nil)
)
