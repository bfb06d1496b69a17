package journal

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"sync"

	"github.com/Monnoroch/blockstream/errors"
)

type dirJournal struct {
	store *dirStore
	name  string
	lock  sync.Mutex
}

func (j *dirJournal) path() string {
	return j.store.dir + "/" + j.name
}

// Events are journalled one per line, base64 encoded, so any payload is safe to store.
func (j *dirJournal) Append(evt []byte) (rerr error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	file, err := os.OpenFile(j.path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() {
		rerr = errors.List().Add(rerr).Add(file.Close()).Err()
	}()

	buf := make([]byte, base64.StdEncoding.EncodedLen(len(evt))+1)
	base64.StdEncoding.Encode(buf, evt)
	buf[len(buf)-1] = '\n'
	_, err = file.Write(buf)
	return err
}

func (j *dirJournal) Read(from uint, to int) (res [][]byte, rerr error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	l, err := j.count()
	if err != nil {
		return nil, err
	}

	f, t, err := convRange(int(from), to, int(l), "dirJournal.Read")
	if err != nil {
		return nil, err
	}
	if f == t {
		return [][]byte{}, nil
	}

	file, err := os.Open(j.path())
	if err != nil {
		return nil, err
	}
	defer func() {
		rerr = errors.List().Add(rerr).Add(file.Close()).Err()
		if rerr != nil {
			res = nil
		}
	}()

	res = [][]byte{}
	scanner := bufio.NewScanner(file)
	lineNum := uint(0)
	for scanner.Scan() {
		if lineNum >= f && lineNum < t {
			evt, err := base64.StdEncoding.DecodeString(scanner.Text())
			if err != nil {
				return nil, err
			}
			res = append(res, evt)
		}
		lineNum++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return res, nil
}

func (j *dirJournal) count() (_ uint, rerr error) {
	file, err := os.Open(j.path())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer func() {
		rerr = errors.List().Add(rerr).Add(file.Close()).Err()
	}()

	buf := make([]byte, 8196)
	count := uint(0)
	lineSep := []byte{'\n'}
	for {
		c, err := file.Read(buf)
		if err != nil && err != io.EOF {
			return 0, err
		}

		count += uint(bytes.Count(buf[:c], lineSep))

		if err == io.EOF {
			break
		}
	}
	return count, nil
}

func (j *dirJournal) Len() (uint, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	return j.count()
}

func (j *dirJournal) Close() error {
	return nil
}

type dirStore struct {
	dir  string
	lock sync.Mutex
	data map[string]*dirJournal
}

func (s *dirStore) Config() (interface{}, error) {
	return map[string]interface{}{
		"type": "dir",
		"arg":  s.dir,
	}, nil
}

func (s *dirStore) Journals() ([]string, error) {
	fs, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, f := range fs {
		if f.IsDir() {
			continue
		}

		names = append(names, f.Name())
	}
	return names, nil
}

func (s *dirStore) Journal(name string) (Journal, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j, ok := s.data[name]
	if !ok {
		j = &dirJournal{store: s, name: name}
		s.data[name] = j
	}
	return j, nil
}

func (s *dirStore) Drop() error {
	return os.RemoveAll(s.dir)
}

func (s *dirStore) Close() error {
	s.data = nil
	return nil
}

/*
Create a store that keeps journals in files in a specified directory, one file per journal.
*/
func NewDir(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	return &dirStore{dir, sync.Mutex{}, map[string]*dirJournal{}}, nil
}
