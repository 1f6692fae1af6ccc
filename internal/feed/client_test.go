package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 0)
	text, err := c.FetchDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", text)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 0)
	_, err := c.FetchReference(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 20*time.Millisecond)
	_, err := c.FetchDataset(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestCheckMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, http.MethodHead, r.Method)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 0)
	assert.NoError(t, c.CheckMedia(context.Background(), srv.URL+"/ok.jpg"))
	assert.ErrorIs(t, c.CheckMedia(context.Background(), srv.URL+"/dead.jpg"), ErrFetch)
}
