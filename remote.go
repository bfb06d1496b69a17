package blockstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/poster"
	"github.com/Monnoroch/blockstream/stream"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type errorObj struct {
	Err string `json:"error,omitempty"`
}

func callErr(p poster.Poster, url string, r io.Reader) error {
	resp, err := p.Post(url, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	rr := errorObj{}
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return err
	}

	if rr.Err != "" {
		return errors.New(rr.Err)
	}

	return nil
}

type streamsRes struct {
	Streams []string `json:"streams,omitempty"`
	Err     string   `json:"error,omitempty"`
}

type okRes struct {
	Ok  bool   `json:"ok,omitempty"`
	Err string `json:"error,omitempty"`
}

type publishCmdData struct {
	Stream string          `json:"stream"`
	Evt    json.RawMessage `json:"event"`
}

type publishCmd struct {
	Cmd  string         `json:"cmd"`
	Data publishCmdData `json:"data"`
}

type subCmdData struct {
	Id     uint64 `json:"id"`
	Stream string `json:"stream"`
	Sid    uint64 `json:"sid"`
}

type subCmd struct {
	Cmd  string     `json:"cmd"`
	Data subCmdData `json:"data"`
}

type unsubCmdData struct {
	Id  uint64 `json:"id"`
	Sid uint64 `json:"sid"`
}

type unsubCmd struct {
	Cmd  string       `json:"cmd"`
	Data unsubCmdData `json:"data"`
}

// eventMsg is any message the server pushes into the websocket:
// command results carry an id, event frames carry a sid and a kind.
type eventMsg struct {
	Id   *uint64         `json:"id,omitempty"`
	Sid  uint64          `json:"sid,omitempty"`
	Kind string          `json:"kind,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
	Err  string          `json:"error,omitempty"`
}

/*
Remote is a client for a served blockstream service implementing the Service interface.
Commands go over HTTP POST, events are pushed through a single websocket connection.
*/
type Remote struct {
	baseUrl string
	p       poster.Poster
	log     *zap.Logger

	cmdId  uint64
	subId  uint64
	closed atomic.Bool

	wlock sync.Mutex
	ws    *websocket.Conn

	lock   sync.Mutex
	subs   map[uint64]*remoteSub
	cmds   map[uint64]chan json.RawMessage
	failed error
}

func (r *Remote) Streams() ([]string, error) {
	resp, err := r.p.Post(fmt.Sprintf("%s/streams", r.baseUrl), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rr := streamsRes{}
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, err
	}

	if rr.Err != "" {
		return nil, errors.New(rr.Err)
	}

	return rr.Streams, nil
}

func (r *Remote) AddStream(name string) error {
	return callErr(r.p, fmt.Sprintf("%s/streams/add/%s", r.baseUrl, name), nil)
}

func (r *Remote) Source(name string) (stream.Source[json.RawMessage], error) {
	if err := callErr(r.p, fmt.Sprintf("%s/streams/get/%s", r.baseUrl, name), nil); err != nil {
		return nil, err
	}

	return &remoteSource{r, name}, nil
}

func (r *Remote) Publish(name string, evt json.RawMessage) error {
	cmd := publishCmd{
		Cmd:  "publish",
		Data: publishCmdData{Stream: name, Evt: evt},
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&cmd); err != nil {
		return err
	}

	return r.send(buf.Bytes())
}

func (r *Remote) RmStream(name string) error {
	return callErr(r.p, fmt.Sprintf("%s/streams/rm/%s", r.baseUrl, name), nil)
}

// Closing the connection errors out the active subscriptions.
func (r *Remote) Close() error {
	if r.closed.Swap(true) {
		return nil
	}

	return r.ws.Close()
}

func (r *Remote) send(bs []byte) error {
	r.wlock.Lock()
	defer r.wlock.Unlock()

	return r.ws.WriteMessage(websocket.BinaryMessage, bs)
}

func (r *Remote) addCmd(id uint64, ch chan json.RawMessage) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.failed != nil {
		return r.failed
	}

	r.cmds[id] = ch
	return nil
}

func (r *Remote) rmCmd(id uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if ch, ok := r.cmds[id]; ok {
		delete(r.cmds, id)
		close(ch)
	}
}

func (r *Remote) failure() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.failed != nil {
		return r.failed
	}
	return errors.New("Remote.call: connection is closed")
}

func (r *Remote) call(id uint64, arg interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(arg); err != nil {
		return nil, err
	}

	ch := make(chan json.RawMessage, 1)
	if err := r.addCmd(id, ch); err != nil {
		return nil, err
	}

	if err := r.send(buf.Bytes()); err != nil {
		r.rmCmd(id)
		return nil, err
	}

	v, ok := <-ch
	if !ok {
		return nil, r.failure()
	}
	return []byte(v), nil
}

func (r *Remote) addSub(s *remoteSub) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.failed != nil {
		return r.failed
	}

	r.subs[s.sid] = s
	return nil
}

func (r *Remote) rmSub(sid uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.subs, sid)
}

func (r *Remote) getSub(sid uint64) *remoteSub {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.subs[sid]
}

func (r *Remote) popSub(sid uint64) *remoteSub {
	r.lock.Lock()
	defer r.lock.Unlock()

	s, ok := r.subs[sid]
	if !ok {
		return nil
	}

	delete(r.subs, sid)
	return s
}

func (r *Remote) subscribe(name string, sub *remoteSub) error {
	// The sid is registered before the command is sent, so event frames
	// arriving before the command result find their subscriber.
	if err := r.addSub(sub); err != nil {
		return err
	}

	cmd := subCmd{
		Cmd:  "subscribe",
		Data: subCmdData{Id: nextId(&r.cmdId), Stream: name, Sid: sub.sid},
	}

	v, err := r.call(cmd.Data.Id, &cmd)
	if err != nil {
		r.rmSub(sub.sid)
		return err
	}

	rr := okRes{}
	if err := json.NewDecoder(bytes.NewReader(v)).Decode(&rr); err != nil {
		r.rmSub(sub.sid)
		return err
	}

	if rr.Err != "" {
		r.rmSub(sub.sid)
		return errors.New(rr.Err)
	}

	return nil
}

func (r *Remote) unsubscribe(sid uint64) (bool, error) {
	cmd := unsubCmd{
		Cmd:  "unsubscribe",
		Data: unsubCmdData{Id: nextId(&r.cmdId), Sid: sid},
	}

	v, err := r.call(cmd.Data.Id, &cmd)
	if err != nil {
		return false, err
	}

	rr := okRes{}
	if err := json.NewDecoder(bytes.NewReader(v)).Decode(&rr); err != nil {
		return false, err
	}

	if rr.Err != "" {
		return false, errors.New(rr.Err)
	}

	return rr.Ok, nil
}

func (r *Remote) handleCmdRes(id uint64, data json.RawMessage) {
	ch := r.popCmd(id)
	if ch == nil {
		r.log.Warn("result for an unknown command", zap.Uint64("id", id))
		return
	}

	ch <- data
	close(ch)
}

func (r *Remote) popCmd(id uint64) chan json.RawMessage {
	r.lock.Lock()
	defer r.lock.Unlock()

	ch, ok := r.cmds[id]
	if !ok {
		return nil
	}

	delete(r.cmds, id)
	return ch
}

// Event frames for unknown sids are dropped: they race with a local cancel.
func (r *Remote) handleEvent(msg *eventMsg) {
	switch msg.Kind {
	case "next":
		if s := r.getSub(msg.Sid); s != nil && !s.IsCancelled() {
			s.obs.OnNext(msg.Data)
		}
	case "error":
		if s := r.popSub(msg.Sid); s != nil {
			s.error(errors.New(msg.Err))
		}
	case "complete":
		if s := r.popSub(msg.Sid); s != nil {
			s.complete()
		}
	default:
		r.log.Warn("event frame with an unknown kind", zap.String("kind", msg.Kind))
	}
}

func (r *Remote) fail(err error) {
	r.lock.Lock()
	r.failed = err
	subs := r.subs
	cmds := r.cmds
	r.subs = map[uint64]*remoteSub{}
	r.cmds = map[uint64]chan json.RawMessage{}
	r.lock.Unlock()

	if !r.closed.Load() {
		r.log.Warn("lost the connection", zap.Error(err))
	}

	for _, ch := range cmds {
		close(ch)
	}
	for _, s := range subs {
		s.error(err)
	}
}

func (r *Remote) run() {
	for {
		_, msg, err := r.ws.ReadMessage()
		if err != nil {
			r.fail(err)
			return
		}

		cmd := eventMsg{}
		if err := json.NewDecoder(bytes.NewReader(msg)).Decode(&cmd); err != nil {
			r.fail(err)
			return
		}

		if cmd.Id != nil {
			r.handleCmdRes(*cmd.Id, cmd.Data)
		} else {
			r.handleEvent(&cmd)
		}
	}
}

type remoteSource struct {
	r    *Remote
	name string
}

func (s *remoteSource) Subscribe(obs stream.Observer[json.RawMessage]) {
	sub := &remoteSub{r: s.r, sid: nextId(&s.r.subId), obs: obs}
	obs.OnSubscribe(sub)
	if sub.IsCancelled() {
		return
	}

	if err := s.r.subscribe(s.name, sub); err != nil {
		sub.error(err)
	}
}

// remoteSub is the client side of one websocket subscription.
// It is the Handle passed to the observer: cancelling drops the local
// registration right away and confirms with the server in the background,
// so it can be called from the observer's own callbacks.
type remoteSub struct {
	r   *Remote
	sid uint64
	obs stream.Observer[json.RawMessage]

	cancelled atomic.Bool
	done      atomic.Bool
}

func (s *remoteSub) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}

	s.r.rmSub(s.sid)
	go func() {
		if _, err := s.r.unsubscribe(s.sid); err != nil {
			s.r.log.Warn("failed to unsubscribe", zap.Uint64("sid", s.sid), zap.Error(err))
		}
	}()
}

func (s *remoteSub) IsCancelled() bool {
	return s.cancelled.Load()
}

func (s *remoteSub) error(err error) {
	if s.done.Swap(true) || s.cancelled.Load() {
		return
	}

	s.obs.OnError(err)
}

func (s *remoteSub) complete() {
	if s.done.Swap(true) || s.cancelled.Load() {
		return
	}

	s.obs.OnComplete()
}

func nextId(val *uint64) uint64 {
	for {
		v := atomic.LoadUint64(val)
		next := v + 1
		if atomic.CompareAndSwapUint64(val, v, next) {
			return next
		}
	}
}

/*
Dial connects to a blockstream service served with NewHandler.
Passing a nil poster means using the standart http.Post, passing a nil logger means logging is off.
*/
func Dial(baseUrl string, p poster.Poster, log *zap.Logger) (*Remote, error) {
	if p == nil {
		p = poster.NewHTTP()
	}
	if log == nil {
		log = zap.NewNop()
	}

	url := baseUrl
	if strings.HasPrefix(url, "http://") {
		url = url[len("http://"):]
	}

	ws, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/events", url), nil)
	if err != nil {
		return nil, err
	}

	r := &Remote{
		baseUrl: baseUrl,
		p:       p,
		log:     log,
		ws:      ws,
		subs:    map[uint64]*remoteSub{},
		cmds:    map[uint64]chan json.RawMessage{},
	}

	go r.run()

	return r, nil
}
