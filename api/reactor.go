// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for the single-descriptor readiness reactor
// used by the relay's send and receive paths.

package api

// EventMask selects the readiness class a reactor watches.
type EventMask uint32

const (
	EventRead EventMask = 1 << iota
	EventWrite
	EventError
)

func (m EventMask) String() string {
	switch m {
	case EventRead:
		return "read"
	case EventWrite:
		return "write"
	case EventError:
		return "error"
	case 0:
		return "none"
	}
	return "mixed"
}

// Reactor watches exactly one descriptor for exactly one event class.
type Reactor interface {
	// FD returns the readiness-handle descriptor (the epoll instance).
	FD() int

	// Wait must block without timeout until the watched descriptor is ready.
	// A zero count means a spurious wake with no work to do.
	Wait() (int, error)

	// Rearm must replace the watched descriptor, keeping the event class.
	Rearm(fd int) error

	// Close must cleanup the internal poller backend.
	Close() error
}

// ReactorFactory builds a Reactor watching fd for events.
type ReactorFactory func(fd int, events EventMask) (Reactor, error)
