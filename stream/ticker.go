package stream

import (
	"time"

	"github.com/benbjohnson/clock"
)

type tickerSource struct {
	clock clock.Clock
	every time.Duration
	count int
}

func (s tickerSource) Subscribe(obs Observer[int]) {
	h := newHandle(nil)
	obs.OnSubscribe(h)
	if s.count == 0 {
		if !h.IsCancelled() {
			obs.OnComplete()
		}
		return
	}
	go func() {
		t := s.clock.Ticker(s.every)
		defer t.Stop()
		for i := 0; ; {
			select {
			case <-t.C:
				if h.IsCancelled() {
					return
				}
				obs.OnNext(i)
				i++
				if s.count >= 0 && i >= s.count {
					if !h.IsCancelled() {
						obs.OnComplete()
					}
					return
				}
			case <-h.done():
				return
			}
		}
	}()
}

// Create a source that delivers sequential tick numbers with the given period.
// A negative count makes it tick forever.
// The clock is a parameter so that the schedule is testable.
func Ticker(c clock.Clock, every time.Duration, count int) Source[int] {
	return tickerSource{c, every, count}
}
