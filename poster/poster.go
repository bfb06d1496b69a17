// Package poster provides a seam for HTTP POSTing, so that clients can run
// against a live server or an in-process handler.
package poster

import (
	"io"
	"net/http"
	"net/http/httptest"
)

type Poster interface {
	Post(url string, r io.Reader) (*http.Response, error)
}

type httpPoster struct {
	client *http.Client
}

func (p httpPoster) Post(url string, r io.Reader) (*http.Response, error) {
	return p.client.Post(url, "text/json", r)
}

// Get a poster that POSTs over plain HTTP.
func NewHTTP() Poster {
	return httpPoster{&http.Client{}}
}

// TestPoster POSTs to an in-process server wrapping an http.Handler.
type TestPoster struct {
	srv *httptest.Server
}

func (p TestPoster) Post(url string, r io.Reader) (*http.Response, error) {
	return p.srv.Client().Post(url, "text/json", r)
}

// Shut down the in-process server.
func (p TestPoster) Close() {
	p.srv.Client().CloseIdleConnections()
	p.srv.Close()
}

// Get a poster serving the handler in-process and the base URL to POST to.
func NewTest(h http.Handler) (TestPoster, string) {
	res := TestPoster{httptest.NewServer(h)}
	return res, res.srv.URL
}
