// Package dchan provides an elastic event channel implementation and a Chan interface, unifying all the go channel types.
package dchan

// Channel interface.
type Chan[T any] interface {
	// Send a value to the channel.
	Send(v T)
	// Receive a value and an open flag from the channel.
	// The flag is false when the channel is closed.
	Recv() (T, bool)
	// The receive side of the channel, for use in select.
	// Receiving from it is the same as calling Recv.
	Out() <-chan T
	// Number of values in the channel buffer.
	Len() int
	// Maximum possible number of values in the channel buffer.
	Cap() int
	// Close the channel.
	Close()
}

type goChan[T any] chan T

func (c goChan[T]) Send(v T) {
	c <- v
}

func (c goChan[T]) Recv() (T, bool) {
	r, ok := <-c
	return r, ok
}

func (c goChan[T]) Out() <-chan T {
	return c
}

func (c goChan[T]) Len() int {
	return len(c)
}

func (c goChan[T]) Cap() int {
	return cap(c)
}

func (c goChan[T]) Close() {
	close(c)
}

// Get an implementation of Chan interface for a standart go chan.
func GoChan[T any]() Chan[T] {
	return goChan[T](make(chan T))
}

// Get an implementation of Chan interface for a standart go buffered chan with the specified buffer sise.
func GoChanBuf[T any](buf int) Chan[T] {
	return goChan[T](make(chan T, buf))
}
