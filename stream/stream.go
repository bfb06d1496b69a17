// Package stream defines the push contract between event sources and observers
// and provides basic sources implementing it.
package stream

import (
	"sync"
)

// Handle controls one subscription of an observer to a source.
type Handle interface {
	// Ask the source to stop delivering events to this subscription.
	// Cancel is idempotent and safe to call from any goroutine.
	Cancel()
	// Check if Cancel has been called.
	IsCancelled() bool
}

// Observer receives events pushed by a source.
//
// The source calls OnSubscribe exactly once, before anything else,
// then any number of OnNext calls, then at most one of OnError or OnComplete.
// After a terminal call, or once a requested cancellation is observed,
// the source makes no further calls.
type Observer[T any] interface {
	OnSubscribe(h Handle)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// Source is a stream of events pushed to subscribed observers.
type Source[T any] interface {
	// Attach an observer to this source.
	// Events can arrive on any goroutine,
	// including the caller's own before Subscribe returns.
	Subscribe(obs Observer[T])
}

type handle struct {
	once     sync.Once
	cancel   chan struct{}
	onCancel func()
}

func newHandle(onCancel func()) *handle {
	return &handle{cancel: make(chan struct{}), onCancel: onCancel}
}

func (h *handle) Cancel() {
	h.once.Do(func() {
		close(h.cancel)
		if h.onCancel != nil {
			h.onCancel()
		}
	})
}

func (h *handle) IsCancelled() bool {
	select {
	case <-h.cancel:
		return true
	default:
		return false
	}
}

// done returns the channel closed on cancellation, for use in select.
func (h *handle) done() <-chan struct{} {
	return h.cancel
}
