package dchan

import (
	"sync"
)

// Gate is a latch that starts shut and can be opened exactly once.
// Any number of waiters can watch for the opening through the Opened channel.
type Gate struct {
	once   sync.Once
	opened chan struct{}
}

// Create a shut gate.
func NewGate() *Gate {
	return &Gate{opened: make(chan struct{})}
}

// Open the gate. Calling Open again has no effect.
func (g *Gate) Open() {
	g.once.Do(func() {
		close(g.opened)
	})
}

// The channel that is closed when the gate opens, for use in select.
func (g *Gate) Opened() <-chan struct{} {
	return g.opened
}

// Check if the gate is open without blocking.
func (g *Gate) IsOpen() bool {
	select {
	case <-g.opened:
		return true
	default:
		return false
	}
}
