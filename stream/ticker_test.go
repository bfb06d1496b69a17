package stream

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

// Test that a ticker source delivers sequential tick numbers and completes.
func TestTicker(t *testing.T) {
	mock := clock.NewMock()
	r := newRecorder[int]()
	Ticker(mock, time.Second, 3).Subscribe(r)

	// The ticker is created on the source goroutine and mock ticks only
	// reach tickers that already exist, so wait before moving the clock.
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		mock.Add(time.Second)
		want := i + 1
		assert.Eventually(t, func() bool {
			return len(r.Events()) == want
		}, time.Second, time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return r.Completes() == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{0, 1, 2}, r.Events())
}

// Test that a zero count ticker completes without ticking.
func TestTickerZero(t *testing.T) {
	mock := clock.NewMock()
	r := newRecorder[int]()
	Ticker(mock, time.Second, 0).Subscribe(r)

	assert.Empty(t, r.Events())
	assert.Equal(t, 1, r.Completes())
}

// Test that cancelling stops an endless ticker.
func TestTickerCancel(t *testing.T) {
	mock := clock.NewMock()
	r := newRecorder[int]()
	Ticker(mock, time.Second, -1).Subscribe(r)

	time.Sleep(20 * time.Millisecond)
	mock.Add(time.Second)
	assert.Eventually(t, func() bool {
		return len(r.Events()) == 1
	}, time.Second, time.Millisecond)

	r.Handle().Cancel()
	mock.Add(5 * time.Second)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []int{0}, r.Events())
	assert.Equal(t, 0, r.Completes())
}
