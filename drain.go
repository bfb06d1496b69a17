package blockstream

import (
	"context"
	"sync"

	"github.com/Monnoroch/blockstream/dchan"
	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/stream"
)

/*
Drain consumes the source on the calling goroutine, discarding events, and
returns once the source terminates: nil on completion, the failure wrapped
into an exception on error.

A context cancellation cancels the upstream subscription and makes Drain
return an interruption error. Unlike Subscribe, Drain buffers nothing, it
only waits for the terminal event.
*/
func Drain[T any](ctx context.Context, src stream.Source[T]) error {
	w := newWaiter[T]()
	src.Subscribe(w)

	select {
	case <-w.gate.Opened():
	case <-ctx.Done():
		// The terminal event wins if both raced.
		if !w.gate.IsOpen() {
			w.cancel()
			return errors.Interrupted(ctx.Err())
		}
	}

	if w.err != nil {
		return errors.AsEx(w.err)
	}
	return nil
}

// waiter is an observer that ignores events and opens a gate on the
// terminal event, remembering the error if there was one.
type waiter[T any] struct {
	gate *dchan.Gate
	// err is written at most once, before the gate opens.
	err error

	mu        sync.Mutex
	upstream  stream.Handle
	cancelled bool
}

func newWaiter[T any]() *waiter[T] {
	return &waiter[T]{gate: dchan.NewGate()}
}

func (w *waiter[T]) OnSubscribe(h stream.Handle) {
	if h == nil {
		return
	}
	w.mu.Lock()
	cancelled := w.cancelled
	if !cancelled {
		w.upstream = h
	}
	w.mu.Unlock()
	if cancelled {
		h.Cancel()
	}
}

func (w *waiter[T]) OnNext(v T) {}

func (w *waiter[T]) OnError(err error) {
	w.err = err
	w.gate.Open()
}

func (w *waiter[T]) OnComplete() {
	w.gate.Open()
}

func (w *waiter[T]) cancel() {
	w.mu.Lock()
	w.cancelled = true
	h := w.upstream
	w.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}
