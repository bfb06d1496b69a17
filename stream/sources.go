package stream

type emptySource[T any] struct{}

func (s emptySource[T]) Subscribe(obs Observer[T]) {
	h := newHandle(nil)
	obs.OnSubscribe(h)
	if h.IsCancelled() {
		return
	}
	obs.OnComplete()
}

// Create a source with no events that completes right away.
func Empty[T any]() Source[T] {
	return emptySource[T]{}
}

type failSource[T any] struct {
	err error
}

func (s failSource[T]) Subscribe(obs Observer[T]) {
	h := newHandle(nil)
	obs.OnSubscribe(h)
	if h.IsCancelled() {
		return
	}
	obs.OnError(s.err)
}

// Create a source with no events that fails right away.
func Fail[T any](err error) Source[T] {
	return failSource[T]{err}
}

type listSource[T any] struct {
	events []T
}

func (s listSource[T]) Subscribe(obs Observer[T]) {
	h := newHandle(nil)
	obs.OnSubscribe(h)
	for _, v := range s.events {
		if h.IsCancelled() {
			return
		}
		obs.OnNext(v)
	}
	if h.IsCancelled() {
		return
	}
	obs.OnComplete()
}

// Create a source from the array of events.
// The events are delivered on the subscribing goroutine.
func List[T any](events []T) Source[T] {
	return listSource[T]{events}
}

type chanSource[T any] struct {
	ch <-chan T
}

func (s chanSource[T]) Subscribe(obs Observer[T]) {
	h := newHandle(nil)
	obs.OnSubscribe(h)
	go func() {
		for {
			select {
			case v, ok := <-s.ch:
				if !ok {
					if !h.IsCancelled() {
						obs.OnComplete()
					}
					return
				}
				if h.IsCancelled() {
					return
				}
				obs.OnNext(v)
			case <-h.done():
				return
			}
		}
	}()
}

// Create a source that reads events from a go channel.
// The events are delivered on a separate goroutine
// and the source completes when the channel is closed.
func Chan[T any](ch <-chan T) Source[T] {
	return chanSource[T]{ch}
}
