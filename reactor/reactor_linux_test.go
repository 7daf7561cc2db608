//go:build linux
// +build linux

package reactor_test

import (
	"testing"

	"github.com/momentics/statrelay/api"
	"github.com/momentics/statrelay/reactor"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func socketpair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestEpollWritable(t *testing.T) {
	a, _ := socketpair(t)
	r, err := reactor.New(a, api.EventWrite)
	require.NoError(t, err)
	defer r.Close()

	require.GreaterOrEqual(t, r.FD(), 0)
	require.Equal(t, a, r.Watched())
	n, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestEpollReadable(t *testing.T) {
	a, b := socketpair(t)
	r, err := reactor.New(a, api.EventRead)
	require.NoError(t, err)
	defer r.Close()

	_, err = unix.Write(b, []byte("ping"))
	require.NoError(t, err)
	n, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestEpollRearm(t *testing.T) {
	a, _ := socketpair(t)
	c, d := socketpair(t)
	r, err := reactor.New(a, api.EventRead)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Rearm(c))
	require.Equal(t, c, r.Watched())

	_, err = unix.Write(d, []byte("new"))
	require.NoError(t, err)
	n, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Error(t, r.Rearm(-1))
}

func TestEpollRejectsMixedEvents(t *testing.T) {
	a, _ := socketpair(t)
	_, err := reactor.New(a, api.EventRead|api.EventWrite)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	require.True(t, api.IsSetup(err))
}

func TestEpollRegisterFailure(t *testing.T) {
	_, err := reactor.New(-1, api.EventRead)
	require.True(t, api.IsSetup(err))
	require.Equal(t, "reactor-register", api.OpOf(err))
	require.ErrorIs(t, err, unix.EBADF)
}

func TestEpollClose(t *testing.T) {
	a, _ := socketpair(t)
	r, err := reactor.New(a, api.EventWrite)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.Equal(t, -1, r.FD())
	_, err = r.Wait()
	require.ErrorIs(t, err, api.ErrHandleInvalid)
}

func TestFactory(t *testing.T) {
	a, _ := socketpair(t)
	r, err := reactor.Factory(a, api.EventWrite)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = reactor.Factory(-1, api.EventWrite)
	require.Error(t, err)
	require.Nil(t, r)
}
