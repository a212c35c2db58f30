package fileutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zurustar/kame/pkg/assert"
)

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello from server"))
	}))
	defer srv.Close()

	got, err := FetchText(context.Background(), srv.URL)
	assert.Nil(t, err)
	assert.Equal(t, "hello from server", got)
}

func TestFetchTextBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := FetchText(context.Background(), srv.URL); err == nil {
		t.Error("Expected error for 404 response, got nil")
	}
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"kame","count":2}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	assert.Nil(t, FetchJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "kame", out.Name)
	assert.Equal(t, 2, out.Count)
}

func TestFetchCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	rows, err := FetchCSV(context.Background(), srv.URL)
	assert.Nil(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FetchText(ctx, srv.URL); err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}
