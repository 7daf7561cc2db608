// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral factory glue for the readiness reactor.

package reactor

import "github.com/momentics/statrelay/api"

// Factory adapts New to api.ReactorFactory.
func Factory(fd int, events api.EventMask) (api.Reactor, error) {
	r, err := New(fd, events)
	if err != nil {
		return nil, err
	}
	return r, nil
}

var _ api.ReactorFactory = Factory

func validEvents(events api.EventMask) bool {
	return events == api.EventRead || events == api.EventWrite
}
