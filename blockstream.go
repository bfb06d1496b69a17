// Package that provides blocking consumption of push event streams and a Service interface to hubs of named streams.
package blockstream

import (
	"encoding/json"

	"github.com/Monnoroch/blockstream/stream"
)

/*
Service is an interface to a collection of named event streams.
Events are opaque JSON documents pushed to a stream and multicast to its subscribers.
*/
type Service interface {
	// List added stream names.
	Streams() ([]string, error)

	// Add a stream by name.
	AddStream(name string) error
	// Get a source of events published to the named stream.
	Source(name string) (stream.Source[json.RawMessage], error)
	// Publish an event to the named stream.
	Publish(name string, evt json.RawMessage) error
	// Remove a stream by name, completing its subscribers.
	RmStream(name string) error

	// Close the Service handler.
	Close() error
}
