package blockstream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that streams are added, listed and removed.
func TestHubStreams(t *testing.T) {
	s := New()
	defer s.Close()

	names, err := s.Streams()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.AddStream("a"))
	require.NoError(t, s.AddStream("b"))

	err = s.AddStream("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	names, err = s.Streams()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	require.NoError(t, s.RmStream("a"))
	names, err = s.Streams()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	assert.Error(t, s.RmStream("a"))
}

// Test that operations on unknown streams fail.
func TestHubUnknownStream(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.Source("missing")
	assert.Error(t, err)
	assert.Error(t, s.Publish("missing", json.RawMessage(`{}`)))
	assert.Error(t, s.RmStream("missing"))
}

// Test that published events reach every subscriber of the stream.
func TestHubPublish(t *testing.T) {
	s := New()
	defer s.Close()
	require.NoError(t, s.AddStream("a"))

	src, err := s.Source("a")
	require.NoError(t, err)

	r1 := newRecorder[json.RawMessage]()
	r2 := newRecorder[json.RawMessage]()
	src.Subscribe(r1)
	src.Subscribe(r2)

	require.NoError(t, s.Publish("a", json.RawMessage(`{"n":1}`)))
	require.NoError(t, s.Publish("a", json.RawMessage(`{"n":2}`)))

	want := []json.RawMessage{json.RawMessage(`{"n":1}`), json.RawMessage(`{"n":2}`)}
	assert.Equal(t, want, r1.Events())
	assert.Equal(t, want, r2.Events())
}

// Test that removing a stream completes its subscribers, late ones included.
func TestHubRmStreamCompletes(t *testing.T) {
	s := New()
	defer s.Close()
	require.NoError(t, s.AddStream("a"))

	src, err := s.Source("a")
	require.NoError(t, err)

	r := newRecorder[json.RawMessage]()
	src.Subscribe(r)

	require.NoError(t, s.RmStream("a"))
	assert.Equal(t, 1, r.Completes())

	// The source handle outlives the stream and completes newcomers right away.
	late := newRecorder[json.RawMessage]()
	src.Subscribe(late)
	assert.Equal(t, 1, late.Completes())

	_, err = s.Source("a")
	assert.Error(t, err)
}

// Test that closing the service completes all subscribers and empties it.
func TestHubClose(t *testing.T) {
	s := New()
	require.NoError(t, s.AddStream("a"))
	require.NoError(t, s.AddStream("b"))

	recs := map[string]*recorder[json.RawMessage]{
		"a": newRecorder[json.RawMessage](),
		"b": newRecorder[json.RawMessage](),
	}
	for name, r := range recs {
		src, err := s.Source(name)
		require.NoError(t, err)
		src.Subscribe(r)
	}

	require.NoError(t, s.Close())
	for _, r := range recs {
		assert.Equal(t, 1, r.Completes())
	}

	names, err := s.Streams()
	require.NoError(t, err)
	assert.Empty(t, names)
}

// Test blocking consumption of a hub stream end to end.
func TestHubSubscribe(t *testing.T) {
	s := New()
	defer s.Close()
	require.NoError(t, s.AddStream("a"))

	src, err := s.Source("a")
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Publish("a", json.RawMessage(`{"n":1}`))
		s.Publish("a", json.RawMessage(`{"n":2}`))
		s.RmStream("a")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := newRecorder[json.RawMessage]()
	Subscribe(ctx, src, r)

	assert.Equal(t, []json.RawMessage{json.RawMessage(`{"n":1}`), json.RawMessage(`{"n":2}`)}, r.Events())
	assert.Empty(t, r.Errs())
	assert.Equal(t, 1, r.Completes())
}
