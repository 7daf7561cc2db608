package relay_test

import (
	"testing"

	"github.com/momentics/statrelay/fake"
	"github.com/momentics/statrelay/relay"
	"github.com/stretchr/testify/require"
)

type fakes struct {
	sockets  *fake.SocketFactory
	reactors *fake.ReactorFactory
}

func newFakes() fakes {
	return fakes{sockets: fake.NewSocketFactory(), reactors: fake.NewReactorFactory()}
}

func (f fakes) options(extra ...relay.Option) []relay.Option {
	return append([]relay.Option{
		relay.WithSocketFactory(f.sockets),
		relay.WithReactorFactory(f.reactors.New),
	}, extra...)
}

// requireHandleInvariant checks that descriptor and reactor are jointly valid
// or jointly invalid.
func requireHandleInvariant(t *testing.T, h *relay.Handle) {
	t.Helper()
	if h.Valid() {
		require.GreaterOrEqual(t, h.FD(), 0)
		require.GreaterOrEqual(t, h.ReactorFD(), 0)
		return
	}
	require.Equal(t, -1, h.FD())
	require.Equal(t, -1, h.ReactorFD())
}
