package dchan

import (
	"math"
	"sync/atomic"
)

type elasticChan[T any] struct {
	add     chan T
	send    chan T
	doClose chan struct{}
	done    chan struct{}
	size    atomic.Int64

	// Owned by the run goroutine.
	queue []T
}

func (c *elasticChan[T]) Send(v T) {
	select {
	case c.add <- v:
	case <-c.done:
		// The channel is closed, the value is dropped.
	}
}

func (c *elasticChan[T]) Recv() (T, bool) {
	v, ok := <-c.send
	return v, ok
}

func (c *elasticChan[T]) Out() <-chan T {
	return c.send
}

func (c *elasticChan[T]) Len() int {
	// NOTE: the buffer can change any moment, so an outdated value is fine.
	return int(c.size.Load())
}

func (c *elasticChan[T]) Cap() int {
	return int(math.MaxInt32)
}

func (c *elasticChan[T]) Close() {
	select {
	case c.doClose <- struct{}{}:
		<-c.done
	case <-c.done:
	}
}

func (c *elasticChan[T]) pushBuffer(v T) {
	c.queue = append(c.queue, v)
	c.size.Add(1)
}

func (c *elasticChan[T]) popBuffer() {
	var zero T
	c.queue[0] = zero
	c.queue = c.queue[1:]
	c.size.Add(-1)
}

func (c *elasticChan[T]) iter() bool {
	if len(c.queue) > 0 {
		select {
		case v := <-c.add:
			c.pushBuffer(v)
		case c.send <- c.queue[0]:
			c.popBuffer()
		case <-c.doClose:
			return true
		}
	} else {
		select {
		case v := <-c.add:
			select {
			case c.send <- v: // check if somebody already is waiting for data
			default:
				c.pushBuffer(v)
			}
		case <-c.doClose:
			return true
		}
	}
	return false
}

func (c *elasticChan[T]) run() {
	for !c.iter() {
	}
	c.queue = nil
	c.size.Store(0)
	close(c.send)
	close(c.done)
}

// Get an implementation of Chan interface for an elastic channel: the channel with infinite, dynamically growing buffer
// with the specified initial buffer sise.
// Closing an elastic channel stops its goroutine and discards the values still buffered.
func ElasticBuf[T any](buf int) Chan[T] {
	c := &elasticChan[T]{
		add:     make(chan T),
		send:    make(chan T),
		doClose: make(chan struct{}),
		done:    make(chan struct{}),
		queue:   make([]T, 0, buf),
	}
	go c.run()
	return c
}

// Get an implementation of Chan interface for an elastic channel: the channel with infinite, dynamically growing buffer.
func Elastic[T any]() Chan[T] {
	return ElasticBuf[T](1)
}
