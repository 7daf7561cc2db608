package relay_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/momentics/statrelay/fake"
	"github.com/momentics/statrelay/relay"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	records []string
	failAt  int // 1-based call number that fails, 0 never
	err     error
}

func (r *recordingSender) Send(_ context.Context, record []byte) error {
	r.records = append(r.records, string(record))
	if r.failAt == len(r.records) {
		return r.err
	}
	return nil
}

func TestLoadKeepsDelimiters(t *testing.T) {
	rs := &recordingSender{}
	st, err := relay.Load(context.Background(), strings.NewReader("a\nbc\n\nlast"), rs)
	require.NoError(t, err)
	require.Equal(t, []string{"a\n", "bc\n", "\n", "last"}, rs.records)
	require.Equal(t, 4, st.Records)
	require.Equal(t, int64(10), st.Bytes)
}

func TestLoadStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("send failed")
	rs := &recordingSender{failAt: 2, err: boom}
	st, err := relay.Load(context.Background(), strings.NewReader("one\ntwo\nthree\n"), rs)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"one\n", "two\n"}, rs.records)
	require.Equal(t, 1, st.Records)
}

func TestLoadInputError(t *testing.T) {
	boom := errors.New("disk")
	rs := &recordingSender{}
	_, err := relay.Load(context.Background(), iotest.ErrReader(boom), rs)
	require.ErrorIs(t, err, boom)
	require.Empty(t, rs.records)
}

func TestLoadEmptyInputNeverConnects(t *testing.T) {
	f := newFakes()
	s := relay.NewSender(4000, f.options()...)

	st, err := relay.Load(context.Background(), strings.NewReader(""), s)
	require.NoError(t, err)
	require.Zero(t, st.Records)
	require.Equal(t, 0, f.sockets.DialCalls)
	require.False(t, s.Connected())
}

func TestLoadThroughSender(t *testing.T) {
	f := newFakes()
	sock := fake.NewSocket(7).ScriptWrite(fake.WriteStep{N: 1}, fake.WriteStep{N: 4})
	f.sockets.QueueDial(sock)
	s := relay.NewSender(4000, f.options()...)

	input := "first record\nsecond\n"
	st, err := relay.Load(context.Background(), strings.NewReader(input), s)
	require.NoError(t, err)
	require.Equal(t, 2, st.Records)
	require.Equal(t, input, string(sock.Written()))
	require.Equal(t, 1, f.sockets.DialCalls)
}
