package blockstream

import (
	"context"

	"github.com/Monnoroch/blockstream/dchan"
	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/stream"
)

/*
Subscribe consumes the source on the calling goroutine, replaying every event
into the observer until a terminal event, a cancellation through the handle
given to the observer in OnSubscribe, or a context cancellation.

The source is free to push events from any goroutine: Subscribe buffers them
without limit and gives the observer a single goroutine view of the stream.
A context cancellation cancels the upstream subscription and is delivered to
the observer as OnError with an interruption error, unless the subscription
was already cancelled.
*/
func Subscribe[T any](ctx context.Context, src stream.Source[T], obs stream.Observer[T]) {
	queue := dchan.Elastic[notification[T]]()
	defer queue.Close()

	b := newBridge[T](queue)
	obs.OnSubscribe(b)
	src.Subscribe(b)

	for {
		if b.IsCancelled() {
			return
		}

		var n notification[T]
		// A buffered event wins over a simultaneous context cancellation.
		select {
		case n = <-queue.Out():
		default:
			select {
			case n = <-queue.Out():
			case <-ctx.Done():
				if b.IsCancelled() {
					return
				}
				b.Cancel()
				obs.OnError(errors.Interrupted(ctx.Err()))
				return
			}
		}

		if b.IsCancelled() || n.kind == kindShutdown {
			return
		}
		if accept(n, obs) {
			return
		}
	}
}

// funcObserver adapts plain callbacks to the Observer interface.
type funcObserver[T any] struct {
	onNext     func(v T)
	onError    func(err error)
	onComplete func()
}

func (o funcObserver[T]) OnSubscribe(h stream.Handle) {}

func (o funcObserver[T]) OnNext(v T) {
	if o.onNext != nil {
		o.onNext(v)
	}
}

func (o funcObserver[T]) OnError(err error) {
	if o.onError != nil {
		o.onError(err)
	}
}

func (o funcObserver[T]) OnComplete() {
	if o.onComplete != nil {
		o.onComplete()
	}
}

// Subscribe with callbacks instead of an observer. Nil callbacks are skipped.
func SubscribeFunc[T any](ctx context.Context, src stream.Source[T], onNext func(v T), onError func(err error), onComplete func()) {
	Subscribe(ctx, src, funcObserver[T]{onNext, onError, onComplete})
}
