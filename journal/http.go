package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/poster"
)

type httpJournal struct {
	appendUrl string
	readUrl   string
	lenUrl    string
	p         poster.Poster
}

func (j *httpJournal) Append(evt []byte) error {
	resp, err := j.p.Post(j.appendUrl, bytes.NewReader(evt))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	res := errorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return err
	}

	if res.Err != "" {
		return errors.New(res.Err)
	}

	return nil
}

func (j *httpJournal) Read(from uint, to int) ([][]byte, error) {
	if int(from) == to {
		return [][]byte{}, nil
	}

	resp, err := j.p.Post(fmt.Sprintf(j.readUrl, from, to), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res := arrErrorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}

	if res.Err != "" {
		return nil, errors.New(res.Err)
	}

	r := make([][]byte, len(res.Events))
	for i, v := range res.Events {
		r[i] = []byte(v)
	}
	return r, nil
}

func (j *httpJournal) Len() (uint, error) {
	resp, err := j.p.Post(j.lenUrl, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	res := lenErrorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return 0, err
	}

	if res.Err != "" {
		return 0, errors.New(res.Err)
	}

	return res.Len, nil
}

func (j *httpJournal) Close() error {
	return nil
}

type httpStore struct {
	baseUrl    string
	configUrl  string
	listUrl    string
	dropUrl    string
	journalUrl string
	p          poster.Poster
	lock       sync.Mutex
	data       map[string]*httpJournal
}

func (s *httpStore) Config() (interface{}, error) {
	resp, err := s.p.Post(s.configUrl, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res := configRes{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}

	if res.Err != "" {
		return nil, errors.New(res.Err)
	}

	return map[string]interface{}{
		"type":   "http",
		"remote": true,
		"arg": map[string]interface{}{
			"url":  s.baseUrl,
			"base": res.Cfg,
		},
	}, nil
}

func (s *httpStore) Journals() ([]string, error) {
	resp, err := s.p.Post(s.listUrl, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res := sarrErrorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}

	if res.Err != "" {
		return nil, errors.New(res.Err)
	}

	return res.Journals, nil
}

func (s *httpStore) Journal(name string) (Journal, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j, ok := s.data[name]
	if !ok {
		baseUrl := fmt.Sprintf(s.journalUrl, name)
		j = &httpJournal{
			fmt.Sprintf("%s/append", baseUrl),
			fmt.Sprintf("%s/read/%%v:%%v", baseUrl),
			fmt.Sprintf("%s/len", baseUrl),
			s.p,
		}
		s.data[name] = j
	}
	return j, nil
}

func (s *httpStore) Drop() error {
	resp, err := s.p.Post(s.dropUrl, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	res := errorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return err
	}

	if res.Err != "" {
		return errors.New(res.Err)
	}
	return nil
}

func (s *httpStore) Close() error {
	s.data = nil
	return nil
}

/*
Create a store client that talks to a store served by NewHandler.
Passing a nil poster means using the plain HTTP poster.
*/
func NewHTTP(url string, p poster.Poster) Store {
	if p == nil {
		p = poster.NewHTTP()
	}
	return &httpStore{
		baseUrl:    url,
		configUrl:  fmt.Sprintf("%s/config", url),
		listUrl:    fmt.Sprintf("%s/journals", url),
		dropUrl:    fmt.Sprintf("%s/drop", url),
		journalUrl: fmt.Sprintf("%s/journals/%%s", url),
		p:          p,
		data:       map[string]*httpJournal{},
	}
}
