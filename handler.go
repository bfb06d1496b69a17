package blockstream

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Monnoroch/blockstream/dchan"
	"github.com/Monnoroch/blockstream/errors"
	"github.com/Monnoroch/blockstream/journal"
	"github.com/Monnoroch/blockstream/stream"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func sendErr(w http.ResponseWriter, err error, log *zap.Logger) {
	w.Header().Set("Content-Type", "text/json")
	if err == nil {
		if _, e := w.Write([]byte("{}\n")); e != nil {
			log.Warn("failed to write a response", zap.Error(e))
		}
		return
	}

	log.Warn("request failed", zap.Error(err))
	if e := json.NewEncoder(w).Encode(&errorObj{Err: err.Error()}); e != nil {
		log.Warn("failed to write a response", zap.Error(e))
	}
}

/*
Create a http.Handler that serves a Service over HTTP and pushes its events through the /events websocket.
A non-nil store is mounted under /store/ so the same server also serves persistent journals.
Passing a nil logger means logging is off.
*/
func NewHandler(s Service, store journal.Store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := mux.NewRouter().StrictSlash(true)

	r.HandleFunc("/streams", func(w http.ResponseWriter, r *http.Request) {
		ss, err := s.Streams()
		if err != nil {
			sendErr(w, err, log)
			return
		}

		if err := json.NewEncoder(w).Encode(&streamsRes{Streams: ss}); err != nil {
			sendErr(w, err, log)
			return
		}
	}).Methods("POST")

	r.HandleFunc("/streams/add/{name}", func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, s.AddStream(mux.Vars(r)["name"]), log)
	}).Methods("POST")

	r.HandleFunc("/streams/get/{name}", func(w http.ResponseWriter, r *http.Request) {
		_, err := s.Source(mux.Vars(r)["name"])
		sendErr(w, err, log)
	}).Methods("POST")

	r.HandleFunc("/streams/rm/{name}", func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, s.RmStream(mux.Vars(r)["name"]), log)
	}).Methods("POST")

	if store != nil {
		r.PathPrefix("/store/").Handler(http.StripPrefix("/store", journal.NewHandler(store, log))).Methods("POST")
	}

	upgrader := websocket.Upgrader{}

	r.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("failed to upgrade a connection", zap.Error(err))
			return
		}
		defer func() {
			if err := ws.Close(); err != nil {
				log.Warn("failed to close a connection", zap.Error(err))
			}
		}()

		handleWs(s, ws, log)
	})

	return r
}

type cmdName struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data"`
}

type cmdRes struct {
	Id   uint64 `json:"id"`
	Data okRes  `json:"data"`
}

// wsConn is the server side of one /events connection.
// Outgoing messages go through an elastic queue, so pushing an event
// never blocks a publisher on a slow connection.
type wsConn struct {
	s   Service
	q   dchan.Chan[[]byte]
	log *zap.Logger

	lock sync.Mutex
	subs map[uint64]*wsSub
}

func (c *wsConn) send(v interface{}) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		c.log.Warn("failed to encode a message", zap.Error(err))
		return
	}

	c.q.Send(buf.Bytes())
}

func (c *wsConn) addSub(s *wsSub) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.subs[s.sid]; ok {
		return errors.Newf("Subscriber \"%v\" already exists!", s.sid)
	}

	c.subs[s.sid] = s
	return nil
}

func (c *wsConn) rmSub(sid uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.subs, sid)
}

func (c *wsConn) popSub(sid uint64) *wsSub {
	c.lock.Lock()
	defer c.lock.Unlock()

	s, ok := c.subs[sid]
	if !ok {
		return nil
	}

	delete(c.subs, sid)
	return s
}

func (c *wsConn) subscribe(data subCmdData) error {
	src, err := c.s.Source(data.Stream)
	if err != nil {
		return err
	}

	sub := &wsSub{c: c, sid: data.Sid}
	if err := c.addSub(sub); err != nil {
		return err
	}

	src.Subscribe(sub)
	return nil
}

func (c *wsConn) iter(msg []byte) error {
	cmd := cmdName{}
	if err := json.NewDecoder(bytes.NewReader(msg)).Decode(&cmd); err != nil {
		return err
	}

	switch cmd.Cmd {
	case "publish":
		data := publishCmdData{}
		if err := json.NewDecoder(bytes.NewReader([]byte(cmd.Data))).Decode(&data); err != nil {
			return err
		}

		if err := c.s.Publish(data.Stream, data.Evt); err != nil {
			c.log.Warn("failed to publish an event", zap.Error(err))
		}
	case "subscribe":
		data := subCmdData{}
		if err := json.NewDecoder(bytes.NewReader([]byte(cmd.Data))).Decode(&data); err != nil {
			return err
		}

		res := okRes{Ok: true}
		if err := c.subscribe(data); err != nil {
			res = okRes{Err: err.Error()}
		}

		c.send(&cmdRes{Id: data.Id, Data: res})
	case "unsubscribe":
		data := unsubCmdData{}
		if err := json.NewDecoder(bytes.NewReader([]byte(cmd.Data))).Decode(&data); err != nil {
			return err
		}

		res := okRes{Ok: false}
		if sub := c.popSub(data.Sid); sub != nil {
			sub.h.Cancel()
			res.Ok = true
		}

		c.send(&cmdRes{Id: data.Id, Data: res})
	default:
		return errors.Newf("Unknown command \"%s\"!", cmd.Cmd)
	}
	return nil
}

func (c *wsConn) close() {
	c.lock.Lock()
	subs := c.subs
	c.subs = map[uint64]*wsSub{}
	c.lock.Unlock()

	for _, s := range subs {
		s.h.Cancel()
	}

	c.q.Close()
}

// wsSub forwards events of one subscription into the connection queue.
type wsSub struct {
	c   *wsConn
	sid uint64

	h stream.Handle
}

func (s *wsSub) OnSubscribe(h stream.Handle) {
	s.h = h
}

func (s *wsSub) OnNext(evt json.RawMessage) {
	s.c.send(&eventMsg{Sid: s.sid, Kind: "next", Data: evt})
}

func (s *wsSub) OnError(err error) {
	s.c.rmSub(s.sid)
	s.c.send(&eventMsg{Sid: s.sid, Kind: "error", Err: err.Error()})
}

func (s *wsSub) OnComplete() {
	s.c.rmSub(s.sid)
	s.c.send(&eventMsg{Sid: s.sid, Kind: "complete"})
}

func handleWs(s Service, ws *websocket.Conn, log *zap.Logger) {
	c := &wsConn{
		s:    s,
		q:    dchan.Elastic[[]byte](),
		log:  log,
		subs: map[uint64]*wsSub{},
	}
	defer c.close()

	go func() {
		for bs := range c.q.Out() {
			if err := ws.WriteMessage(websocket.BinaryMessage, bs); err != nil {
				log.Warn("failed to write to a connection", zap.Error(err))
				break
			}
		}
	}()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			log.Debug("connection closed", zap.Error(err))
			return
		}

		if err := c.iter(msg); err != nil {
			log.Warn("failed to handle a command", zap.Error(err))
			return
		}
	}
}
