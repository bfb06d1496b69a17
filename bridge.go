package blockstream

import (
	"sync"
	"sync/atomic"

	"github.com/Monnoroch/blockstream/dchan"
	"github.com/Monnoroch/blockstream/stream"
)

// bridge moves events of a source, arriving on any goroutine, into a queue
// drained by the consuming goroutine. For the source it is the observer it
// pushes into, for the consumer it is the handle that cancels the subscription.
type bridge[T any] struct {
	queue dchan.Chan[notification[T]]

	mu       sync.Mutex
	upstream stream.Handle

	cancelled  atomic.Bool
	terminated atomic.Bool
}

func newBridge[T any](queue dchan.Chan[notification[T]]) *bridge[T] {
	return &bridge[T]{queue: queue}
}

func (b *bridge[T]) OnSubscribe(h stream.Handle) {
	if h == nil {
		return
	}
	b.mu.Lock()
	if b.upstream != nil {
		// A source subscribes at most once, extra handles get cancelled.
		b.mu.Unlock()
		h.Cancel()
		return
	}
	b.upstream = h
	b.mu.Unlock()

	if b.cancelled.Load() {
		h.Cancel()
	}
}

func (b *bridge[T]) OnNext(v T) {
	if b.terminated.Load() {
		return
	}
	b.queue.Send(notification[T]{kind: kindNext, val: v})
}

func (b *bridge[T]) OnError(err error) {
	if b.terminated.Swap(true) {
		return
	}
	b.queue.Send(notification[T]{kind: kindError, err: err})
}

func (b *bridge[T]) OnComplete() {
	if b.terminated.Swap(true) {
		return
	}
	b.queue.Send(notification[T]{kind: kindComplete})
}

// Cancel stops the subscription: it cancels upstream and wakes up the
// consumer if it is blocked on an empty queue.
func (b *bridge[T]) Cancel() {
	if b.cancelled.Swap(true) {
		return
	}
	b.mu.Lock()
	h := b.upstream
	b.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
	b.queue.Send(notification[T]{kind: kindShutdown})
}

func (b *bridge[T]) IsCancelled() bool {
	return b.cancelled.Load()
}
