package blockstream

import (
	"encoding/json"
	"sync"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/stream"
)

type hub struct {
	lock    sync.Mutex
	streams map[string]*stream.Subject[json.RawMessage]
}

func (h *hub) Streams() ([]string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	res := make([]string, 0, len(h.streams))
	for k := range h.streams {
		res = append(res, k)
	}
	return res, nil
}

func (h *hub) AddStream(name string) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.streams[name]; ok {
		return errors.Newf("hub.AddStream: stream with name \"%s\" already exists", name)
	}

	h.streams[name] = stream.NewSubject[json.RawMessage]()
	return nil
}

func (h *hub) getStream(name string) (*stream.Subject[json.RawMessage], bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.streams[name]
	return s, ok
}

func (h *hub) Source(name string) (stream.Source[json.RawMessage], error) {
	s, ok := h.getStream(name)
	if !ok {
		return nil, errors.Newf("hub.Source: stream with name \"%s\" does not exist", name)
	}

	return s, nil
}

func (h *hub) Publish(name string, evt json.RawMessage) error {
	s, ok := h.getStream(name)
	if !ok {
		return errors.Newf("hub.Publish: stream with name \"%s\" does not exist", name)
	}

	s.OnNext(evt)
	return nil
}

func (h *hub) rmStream(name string) (*stream.Subject[json.RawMessage], error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.streams[name]
	if !ok {
		return nil, errors.Newf("hub.RmStream: stream with name \"%s\" does not exist", name)
	}

	delete(h.streams, name)
	return s, nil
}

func (h *hub) RmStream(name string) error {
	s, err := h.rmStream(name)
	if err != nil {
		return err
	}

	// NOTE: Subscribers run arbitrary code on terminal events and may call
	// back into the hub, so the subject is completed outside the lock.
	s.OnComplete()
	return nil
}

func (h *hub) Close() error {
	h.lock.Lock()
	streams := h.streams
	h.streams = nil
	h.lock.Unlock()

	for _, s := range streams {
		s.OnComplete()
	}
	return nil
}

// Create the in-process blockstream service.
func New() Service {
	return &hub{streams: map[string]*stream.Subject[json.RawMessage]{}}
}
