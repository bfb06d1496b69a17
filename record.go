package blockstream

import (
	"context"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/journal"
	"github.com/Monnoroch/blockstream/stream"
)

/*
Record consumes the source on the calling goroutine, appending every event
to the journal. It returns once the source terminates or an append fails,
cancelling the subscription in the latter case.
*/
func Record[T ~[]byte](ctx context.Context, src stream.Source[T], j journal.Journal) error {
	r := &recordObserver[T]{journal: j}
	Subscribe[T](ctx, src, r)
	if r.err != nil {
		return errors.AsEx(r.err)
	}
	return nil
}

// recordObserver runs entirely on the consuming goroutine, so it needs no locks.
type recordObserver[T ~[]byte] struct {
	journal journal.Journal
	h       stream.Handle
	err     error
}

func (r *recordObserver[T]) OnSubscribe(h stream.Handle) {
	r.h = h
}

func (r *recordObserver[T]) OnNext(v T) {
	if r.err != nil {
		return
	}
	if err := r.journal.Append([]byte(v)); err != nil {
		r.err = err
		r.h.Cancel()
	}
}

func (r *recordObserver[T]) OnError(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *recordObserver[T]) OnComplete() {}
