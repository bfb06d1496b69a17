package stream

import (
	"sync"
)

// Subject is a source that multicasts events pushed to its observer side.
//
// An event goes to every subscriber active at the time of the call.
// After a terminal event the subject latches: the remaining subscribers
// are dropped and late subscribers get the terminal event right away.
//
// Subject is also an observer, so it can be subscribed to another source
// to re-multicast its events.
type Subject[T any] struct {
	// emu serializes deliveries so subscribers see events in one order.
	emu sync.Mutex
	// mu guards the fields below.
	mu   sync.Mutex
	subs []*subjectSub[T]
	done bool
	err  error
}

type subjectSub[T any] struct {
	obs Observer[T]
	h   *handle
}

// Create a subject with no subscribers.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(obs Observer[T]) {
	sub := &subjectSub[T]{obs: obs}
	sub.h = newHandle(func() {
		s.remove(sub)
	})
	obs.OnSubscribe(sub.h)

	s.mu.Lock()
	if s.done {
		err := s.err
		s.mu.Unlock()
		if sub.h.IsCancelled() {
			return
		}
		if err != nil {
			obs.OnError(err)
		} else {
			obs.OnComplete()
		}
		return
	}
	if sub.h.IsCancelled() {
		s.mu.Unlock()
		return
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

func (s *Subject[T]) remove(sub *subjectSub[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.subs {
		if v == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Subject[T]) snapshot() []*subjectSub[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	subs := make([]*subjectSub[T], len(s.subs))
	copy(subs, s.subs)
	return subs
}

// Subscribing a terminated subject to a source cancels the subscription right away.
func (s *Subject[T]) OnSubscribe(h Handle) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done {
		h.Cancel()
	}
}

func (s *Subject[T]) OnNext(v T) {
	s.emu.Lock()
	defer s.emu.Unlock()
	for _, sub := range s.snapshot() {
		if !sub.h.IsCancelled() {
			sub.obs.OnNext(v)
		}
	}
}

func (s *Subject[T]) OnError(err error) {
	s.emu.Lock()
	defer s.emu.Unlock()
	for _, sub := range s.terminate(err) {
		if !sub.h.IsCancelled() {
			sub.obs.OnError(err)
		}
	}
}

func (s *Subject[T]) OnComplete() {
	s.emu.Lock()
	defer s.emu.Unlock()
	for _, sub := range s.terminate(nil) {
		if !sub.h.IsCancelled() {
			sub.obs.OnComplete()
		}
	}
}

func (s *Subject[T]) terminate(err error) []*subjectSub[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	s.err = err
	subs := s.subs
	s.subs = nil
	return subs
}
