// Package transport
// Author: momentics <momentics@gmail.com>
//
// Platform-independent factory for loopback stream sockets.

package transport

import (
	"fmt"
	"net/netip"

	"github.com/momentics/statrelay/api"
)

// Loopback is the api.SocketFactory creating 127.0.0.1 endpoints.
type Loopback struct{}

var _ api.SocketFactory = Loopback{}

// Dial connects a new stream socket to 127.0.0.1:port.
func (Loopback) Dial(port int) (api.Socket, error) {
	s, err := dial(port)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Listen binds a new stream socket to 127.0.0.1:port and marks it listening.
// Port 0 lets the kernel pick an ephemeral port.
func (Loopback) Listen(port, backlog int) (api.Listener, error) {
	l, err := listen(port, backlog)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// loopbackAddr resolves the IPv4 loopback address used by both variants.
func loopbackAddr() ([4]byte, error) {
	addr, err := netip.ParseAddr("127.0.0.1")
	if err != nil {
		return [4]byte{}, err
	}
	if !addr.Is4() {
		return [4]byte{}, fmt.Errorf("%s is not an IPv4 address", addr)
	}
	return addr.As4(), nil
}

func checkPort(port int, allowZero bool) error {
	if port < 0 || port > 65535 || (port == 0 && !allowZero) {
		return fmt.Errorf("%w: port %d", api.ErrInvalidArgument, port)
	}
	return nil
}
