package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<html><body>
<div class="result">
  <a class="result__a" href="https://go.dev">The Go Programming Language</a>
  <div class="result__snippet">Build simple, secure, scalable systems.</div>
</div>
<div class="result">
  <a class="result__a" href="https://pkg.go.dev">Go Packages</a>
  <div class="result__snippet">Package discovery site.</div>
</div>
</body></html>`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	s := NewSearcherWithEndpoint(srv.URL, nil)
	out, err := s.Search(context.Background(), "golang tutorial")
	require.NoError(t, err)

	assert.Equal(t, "golang tutorial", gotQuery)
	assert.Contains(t, out, "1. The Go Programming Language")
	assert.Contains(t, out, "https://go.dev")
	assert.Contains(t, out, "Build simple, secure, scalable systems.")
	assert.Contains(t, out, "2. Go Packages")
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>no results here</body></html>"))
	}))
	defer srv.Close()

	s := NewSearcherWithEndpoint(srv.URL, nil)
	out, err := s.Search(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.Contains(t, out, `No results for "xyzzy"`)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSearcherWithEndpoint(srv.URL, nil)
	_, err := s.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestParseResultsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		b.WriteString(`<a class="result__a" href="https://example.com">hit</a>`)
	}
	b.WriteString("</body></html>")

	results, err := parseResults(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, results, maxResults)
}
