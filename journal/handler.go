package journal

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Monnoroch/blockstream/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type errorObj struct {
	Err string `json:"error,omitempty"`
}

type arrErrorObj struct {
	Events []json.RawMessage `json:"events,omitempty"`
	Err    string            `json:"error,omitempty"`
}

type lenErrorObj struct {
	Len uint   `json:"len,omitempty"`
	Err string `json:"error,omitempty"`
}

type configRes struct {
	Cfg interface{} `json:"config,omitempty"`
	Err string      `json:"error,omitempty"`
}

type sarrErrorObj struct {
	Journals []string `json:"journals,omitempty"`
	Err      string   `json:"error,omitempty"`
}

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
NewHandler serves a store over HTTP.
The events read back over this surface are served as JSON documents,
so journals accessed through it should hold JSON payloads.
Passing a nil logger means logging is off.
*/
func NewHandler(s Store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := mux.NewRouter()

	r.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.Config()
		if err != nil {
			sendErr(w, err, log)
			return
		}

		if err := json.NewEncoder(w).Encode(&configRes{Cfg: cfg}); err != nil {
			sendErr(w, err, log)
			return
		}
	}).Methods("POST")

	r.HandleFunc("/journals", func(w http.ResponseWriter, r *http.Request) {
		js, err := s.Journals()
		if err != nil {
			sendErr(w, err, log)
			return
		}

		if err := json.NewEncoder(w).Encode(&sarrErrorObj{Journals: js}); err != nil {
			sendErr(w, err, log)
			return
		}
	}).Methods("POST")

	r.HandleFunc("/drop", func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, s.Drop(), log)
	}).Methods("POST")

	r.HandleFunc("/journals/{name}/append", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			sendErr(w, err, log)
			return
		}

		j, err := s.Journal(mux.Vars(r)["name"])
		if err != nil {
			sendErr(w, err, log)
			return
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.Warn("failed to close a journal", zap.Error(err))
			}
		}()

		sendErr(w, j.Append(data), log)
	}).Methods("POST")

	r.HandleFunc("/journals/{name}/read/{from}:{to}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		j, err := s.Journal(vars["name"])
		if err != nil {
			sendErr(w, err, log)
			return
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.Warn("failed to close a journal", zap.Error(err))
			}
		}()

		from, err := strconv.Atoi(vars["from"])
		if err != nil {
			sendErr(w, err, log)
			return
		}

		if from < 0 {
			sendErr(w, errors.Newf("Expected from to be >= 0, got %v", from), log)
			return
		}

		to, err := strconv.Atoi(vars["to"])
		if err != nil {
			sendErr(w, err, log)
			return
		}

		evts, err := j.Read(uint(from), to)
		if err != nil {
			sendErr(w, err, log)
			return
		}

		res := make([]json.RawMessage, len(evts))
		for i, v := range evts {
			res[i] = json.RawMessage(v)
		}

		if err := json.NewEncoder(w).Encode(&arrErrorObj{Events: res}); err != nil {
			sendErr(w, err, log)
			return
		}
	}).Methods("POST")

	r.HandleFunc("/journals/{name}/len", func(w http.ResponseWriter, r *http.Request) {
		j, err := s.Journal(mux.Vars(r)["name"])
		if err != nil {
			sendErr(w, err, log)
			return
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.Warn("failed to close a journal", zap.Error(err))
			}
		}()

		l, err := j.Len()
		if err != nil {
			sendErr(w, err, log)
			return
		}

		if err := json.NewEncoder(w).Encode(&lenErrorObj{Len: l}); err != nil {
			sendErr(w, err, log)
			return
		}
	}).Methods("POST")

	return r
}
