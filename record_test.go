package blockstream

import (
	"context"
	"testing"
	"time"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/journal"
	"github.com/Monnoroch/blockstream/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memJournal(t *testing.T) journal.Journal {
	s := journal.NewMem()
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	j, err := s.Journal("test")
	require.NoError(t, err)
	return j
}

// failingJournal delegates to the wrapped journal and starts failing appends
// once the allowed count runs out.
type failingJournal struct {
	journal.Journal
	ok  int
	err error
}

func (j *failingJournal) Append(evt []byte) error {
	if j.ok <= 0 {
		return j.err
	}
	j.ok--
	return j.Journal.Append(evt)
}

// Test that recorded events land in the journal in order.
func TestRecord(t *testing.T) {
	j := memJournal(t)

	evts := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	require.NoError(t, Record[[]byte](context.Background(), scripted[[]byte]{evts, nil}, j))

	got, err := j.Read(0, -1)
	require.NoError(t, err)
	assert.Equal(t, evts, got)
}

// Test that an upstream failure is returned after the prefix got journalled.
func TestRecordError(t *testing.T) {
	j := memJournal(t)

	cause := errors.New("source failed")
	err := Record[[]byte](context.Background(), scripted[[]byte]{[][]byte{[]byte("a")}, cause}, j)
	require.Error(t, err)

	ex, ok := err.(errors.ExError)
	require.True(t, ok)
	assert.Same(t, cause, ex.Reason())

	got, err := j.Read(0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a")}, got)
}

// Test that an append failure stops the recording and is returned.
func TestRecordAppendFailure(t *testing.T) {
	cause := errors.New("disk full")
	j := &failingJournal{memJournal(t), 1, cause}

	evts := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	err := Record[[]byte](context.Background(), scripted[[]byte]{evts, nil}, j)
	require.Error(t, err)

	ex, ok := err.(errors.ExError)
	require.True(t, ok)
	assert.Same(t, cause, ex.Reason())

	got, err := j.Read(0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a")}, got)
}

// Test that replaying one journal into another copies the events.
func TestRecordReplay(t *testing.T) {
	s := journal.NewMem()
	defer s.Close()

	src, err := s.Journal("src")
	require.NoError(t, err)
	dst, err := s.Journal("dst")
	require.NoError(t, err)

	evts := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	for _, evt := range evts {
		require.NoError(t, src.Append(evt))
	}

	require.NoError(t, Record(context.Background(), journal.Replay(src, 0, -1), dst))

	got, err := dst.Read(0, -1)
	require.NoError(t, err)
	assert.Equal(t, evts, got)
}

// Test that a context cancellation interrupts a blocked recording.
func TestRecordInterrupted(t *testing.T) {
	j := memJournal(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Record[[]byte](ctx, stream.NewSubject[[]byte](), j)
	require.Error(t, err)
	assert.True(t, errors.IsInterrupted(err))

	l, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, uint(0), l)
}
