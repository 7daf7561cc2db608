// File: api/socket.go
// Author: momentics <momentics@gmail.com>
//
// Raw stream descriptor contracts shared by the lifecycle manager and tests.

package api

// Socket is a connected or listening stream descriptor.
type Socket interface {
	FD() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Listener is a listening Socket able to hand out peer connections.
type Listener interface {
	Socket
	Accept() (Socket, error)

	// Port returns the bound port, resolved when 0 was requested.
	Port() int
}

// SocketFactory creates loopback endpoints. Implementations return *Error
// values with Code ErrCodeSetup naming the failed step and must release any
// descriptor they created before returning an error.
type SocketFactory interface {
	// Dial connects a stream socket to 127.0.0.1:port.
	Dial(port int) (Socket, error)

	// Listen binds a stream socket to the loopback address and marks it
	// listening with the given backlog.
	Listen(port, backlog int) (Listener, error)
}
