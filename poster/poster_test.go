package poster

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that a test poster posts to the wrapped handler.
func TestPost(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		fmt.Fprintf(w, "%s %s", r.URL.Path, body)
	})

	p, url := NewTest(h)
	defer p.Close()

	resp, err := p.Post(fmt.Sprintf("%s/path", url), bytes.NewReader([]byte("body")))
	require.NoError(t, err)
	defer resp.Body.Close()

	res, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "/path body", string(res))
}

// Test that posting nothing sends an empty body.
func TestPostEmpty(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Empty(t, body)
	})

	p, url := NewTest(h)
	defer p.Close()

	resp, err := p.Post(url, nil)
	require.NoError(t, err)
	assert.NoError(t, resp.Body.Close())
}
