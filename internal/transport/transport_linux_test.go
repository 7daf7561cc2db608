//go:build linux
// +build linux

package transport_test

import (
	"testing"

	"github.com/momentics/statrelay/api"
	"github.com/momentics/statrelay/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLoopbackRoundTrip(t *testing.T) {
	var f transport.Loopback
	ln, err := f.Listen(0, 8)
	require.NoError(t, err)
	defer ln.Close()
	require.Greater(t, ln.Port(), 0)

	c, err := f.Dial(ln.Port())
	require.NoError(t, err)
	defer c.Close()

	peer, err := ln.Accept()
	require.NoError(t, err)
	defer peer.Close()

	n, err := c.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	buf := make([]byte, 16)
	n, err = peer.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(buf[:n]))

	require.NoError(t, c.Close())
	n, err = peer.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCloseIsIdempotent(t *testing.T) {
	var f transport.Loopback
	ln, err := f.Listen(0, 1)
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	require.NoError(t, ln.Close())
	require.Equal(t, -1, ln.FD())
}

func TestDialRefused(t *testing.T) {
	var f transport.Loopback
	ln, err := f.Listen(0, 1)
	require.NoError(t, err)
	port := ln.Port()
	require.NoError(t, ln.Close())

	_, err = f.Dial(port)
	require.ErrorIs(t, err, unix.ECONNREFUSED)
	require.Equal(t, "connect", api.OpOf(err))
	require.True(t, api.IsSetup(err))
}

func TestInvalidPorts(t *testing.T) {
	var f transport.Loopback
	_, err := f.Dial(0)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	require.Equal(t, "resolve", api.OpOf(err))

	_, err = f.Listen(70000, 1)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	require.Equal(t, "bind", api.OpOf(err))
}

func TestListenAddressInUse(t *testing.T) {
	var f transport.Loopback
	ln, err := f.Listen(0, 1)
	require.NoError(t, err)
	defer ln.Close()

	_, err = f.Listen(ln.Port(), 1)
	require.ErrorIs(t, err, unix.EADDRINUSE)
	require.Equal(t, "bind", api.OpOf(err))
}
