package journal

import (
	"os"
	"sync"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/ledisdb/ledisdb/config"
	"github.com/ledisdb/ledisdb/ledis"
)

type ledisJournal struct {
	db    *ledis.DB
	store *ledisStore
	name  string
	key   []byte

	// access syncronized by store
	refcnt int
}

func (j *ledisJournal) Append(evt []byte) error {
	_, err := j.db.RPush(j.key, evt)
	return err
}

func (j *ledisJournal) Read(from uint, to int) ([][]byte, error) {
	l, err := j.db.LLen(j.key)
	if err != nil {
		return nil, err
	}

	f, t, err := convRange(int(from), to, int(l), "ledisJournal.Read")
	if err != nil {
		return nil, err
	}
	if f == t {
		return [][]byte{}, nil
	}

	return j.db.LRange(j.key, int32(f), int32(t)-1)
}

func (j *ledisJournal) Len() (uint, error) {
	l, err := j.db.LLen(j.key)
	if err != nil {
		return 0, err
	}

	return uint(l), nil
}

func (j *ledisJournal) Close() error {
	j.store.release(j)
	return nil
}

type ledisStore struct {
	dirname string
	ledis   *ledis.Ledis
	db      *ledis.DB
	lock    sync.Mutex
	data    map[string]*ledisJournal
}

func (s *ledisStore) Config() (interface{}, error) {
	return map[string]interface{}{
		"type": "ledis",
		"arg":  s.dirname,
	}, nil
}

func (s *ledisStore) Journals() ([]string, error) {
	r := make([][]byte, 0, 10)
	lastKey := []byte{}
	for {
		keys, err := s.db.Scan(ledis.LIST, lastKey, 10, false, "")
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			break
		}

		r = append(r, keys...)
		lastKey = r[len(r)-1]
	}

	res := make([]string, len(r))
	for i, v := range r {
		res[i] = string(v)
		r[i] = nil // help GC
	}
	return res, nil
}

func (s *ledisStore) Journal(name string) (Journal, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j, ok := s.data[name]
	if !ok {
		j = &ledisJournal{db: s.db, store: s, name: name, key: []byte(name)}
		s.data[name] = j
	}

	j.refcnt++
	return j, nil
}

func (s *ledisStore) Drop() error {
	return errors.List().
		Add(s.ledis.FlushAll()).
		Add(os.RemoveAll(s.dirname)).
		Err()
}

func (s *ledisStore) Close() error {
	s.data = nil
	s.ledis.Close()
	return nil
}

func (s *ledisStore) release(j *ledisJournal) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j.refcnt--
	if j.refcnt == 0 {
		delete(s.data, j.name)
	}
}

/*
Create a store that keeps journals in ledisdb lists.
*/
func NewLedis(dirname string) (Store, error) {
	lcfg := config.NewConfigDefault()
	lcfg.DataDir = dirname
	lcfg.Addr = ""
	lcfg.Databases = 1

	l, err := ledis.Open(lcfg)
	if err != nil {
		return nil, err
	}

	db, err := l.Select(0)
	if err != nil {
		return nil, err
	}

	return &ledisStore{dirname, l, db, sync.Mutex{}, map[string]*ledisJournal{}}, nil
}
