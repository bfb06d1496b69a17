package blockstream

import (
	"context"
	"testing"
	"time"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that draining a completing source returns nil, whatever the events were.
func TestDrainComplete(t *testing.T) {
	assert.NoError(t, Drain(context.Background(), stream.Empty[int]()))
	assert.NoError(t, Drain(context.Background(), stream.List([]int{1, 2, 3})))
}

// Test that draining a failing source returns the failure as an exception.
func TestDrainError(t *testing.T) {
	cause := errors.New("source failed")
	err := Drain(context.Background(), stream.Fail[int](cause))
	require.Error(t, err)

	ex, ok := err.(errors.ExError)
	require.True(t, ok)
	assert.Same(t, cause, ex.Reason())
}

// Test that an already wrapped failure is returned as is.
func TestDrainErrorEx(t *testing.T) {
	cause := errors.Ex("source failed")
	err := Drain(context.Background(), stream.Fail[int](cause))
	assert.Equal(t, cause, err)
}

// Test that a failure after events still comes through.
func TestDrainErrorAfterEvents(t *testing.T) {
	cause := errors.New("source failed")
	err := Drain[int](context.Background(), scripted[int]{[]int{1, 2}, cause})
	require.Error(t, err)

	ex, ok := err.(errors.ExError)
	require.True(t, ok)
	assert.Same(t, cause, ex.Reason())
}

// Test that a context cancellation interrupts a blocked drain.
func TestDrainInterrupted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Drain[int](ctx, stream.NewSubject[int]())
	require.Error(t, err)
	assert.True(t, errors.IsInterrupted(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
