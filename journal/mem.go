package journal

import (
	"sync"
)

type memJournal struct {
	store *memStore
	name  string

	lock sync.Mutex
	data [][]byte

	// access syncronized by store
	refcnt int
}

func (j *memJournal) Append(evt []byte) error {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.data = append(j.data, evt)
	return nil
}

func (j *memJournal) Read(from uint, to int) ([][]byte, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	f, t, err := convRange(int(from), to, len(j.data), "memJournal.Read")
	if err != nil {
		return nil, err
	}

	res := make([][]byte, t-f)
	copy(res, j.data[f:t])
	return res, nil
}

func (j *memJournal) Len() (uint, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	return uint(len(j.data)), nil
}

func (j *memJournal) Close() error {
	return nil
}

type memStore struct {
	lock sync.Mutex
	data map[string]*memJournal
}

func (s *memStore) Config() (interface{}, error) {
	return map[string]interface{}{
		"type": "mem",
		"arg":  nil,
	}, nil
}

func (s *memStore) Journals() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	res := make([]string, 0, len(s.data))
	for k := range s.data {
		res = append(res, k)
	}
	return res, nil
}

func (s *memStore) Journal(name string) (Journal, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j, ok := s.data[name]
	if !ok {
		j = &memJournal{store: s, name: name}
		s.data[name] = j
	}
	j.refcnt++
	return j, nil
}

func (s *memStore) Drop() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = map[string]*memJournal{}
	return nil
}

func (s *memStore) Close() error {
	s.data = nil
	return nil
}

/*
Create a store that keeps journals in memory.
*/
func NewMem() Store {
	return &memStore{data: map[string]*memJournal{}}
}
