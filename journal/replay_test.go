package journal

import (
	"testing"

	"github.com/Monnoroch/blockstream/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects everything a replay delivers. Replays run on the
// subscriber's goroutine, so it needs no locks.
type recorder struct {
	events    [][]byte
	errs      []error
	completes int
}

func (r *recorder) OnSubscribe(h stream.Handle) {}

func (r *recorder) OnNext(evt []byte) {
	r.events = append(r.events, evt)
}

func (r *recorder) OnError(err error) {
	r.errs = append(r.errs, err)
}

func (r *recorder) OnComplete() {
	r.completes++
}

// Test that a replay delivers the journalled events in order and completes.
func TestReplay(t *testing.T) {
	s := NewMem()
	defer s.Close()

	j, err := s.Journal("test")
	require.NoError(t, err)
	for _, e := range []string{"a", "b", "c"} {
		require.NoError(t, j.Append([]byte(e)))
	}

	r := &recorder{}
	Replay(j, 0, -1).Subscribe(r)

	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, r.events)
	assert.Empty(t, r.errs)
	assert.Equal(t, 1, r.completes)

	r = &recorder{}
	Replay(j, 1, 2).Subscribe(r)
	assert.Equal(t, [][]byte{[]byte("b")}, r.events)
	assert.Equal(t, 1, r.completes)
}

// Test that a replay of a bad range delivers the range error.
func TestReplayBadRange(t *testing.T) {
	s := NewMem()
	defer s.Close()

	j, err := s.Journal("test")
	require.NoError(t, err)
	require.NoError(t, j.Append([]byte("a")))

	r := &recorder{}
	Replay(j, 7, -1).Subscribe(r)

	assert.Empty(t, r.events)
	assert.Len(t, r.errs, 1)
	assert.Equal(t, 0, r.completes)
}

// Test that every subscription reads the journal at its own subscription time.
func TestReplayFresh(t *testing.T) {
	s := NewMem()
	defer s.Close()

	j, err := s.Journal("test")
	require.NoError(t, err)
	require.NoError(t, j.Append([]byte("a")))

	src := Replay(j, 0, -1)

	r := &recorder{}
	src.Subscribe(r)
	assert.Len(t, r.events, 1)

	require.NoError(t, j.Append([]byte("b")))

	r = &recorder{}
	src.Subscribe(r)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, r.events)
}
