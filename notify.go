package blockstream

import (
	"github.com/Monnoroch/blockstream/stream"
)

type notifyKind uint8

const (
	kindNext notifyKind = iota
	kindError
	kindComplete
	kindShutdown
)

// notification is one queued stream signal: an event, a terminal,
// or the shutdown marker that wakes up a consumer blocked on the queue.
type notification[T any] struct {
	kind notifyKind
	val  T
	err  error
}

// accept replays a notification on the observer.
// It reports whether the notification was terminal.
func accept[T any](n notification[T], obs stream.Observer[T]) bool {
	switch n.kind {
	case kindNext:
		obs.OnNext(n.val)
		return false
	case kindError:
		obs.OnError(n.err)
		return true
	default:
		obs.OnComplete()
		return true
	}
}
