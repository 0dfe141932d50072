package culler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/model"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/missing", http.NotFound)
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func bookmark(id int64, url string) model.BookmarkItem {
	return model.BookmarkItem{ID: model.NewID(id, model.TypeNormal), Title: url, URL: url}
}

func TestCheckURLs(t *testing.T) {
	srv := newSite(t)
	items := []model.BookmarkItem{
		bookmark(1, srv.URL+"/ok"),
		bookmark(2, srv.URL+"/gone"),
		bookmark(3, srv.URL+"/missing"),
		bookmark(4, srv.URL+"/get-only"),
		bookmark(5, srv.URL+"/broken"),
	}

	var progress atomic.Int32
	opts := DefaultOptions()
	opts.RatePerSecond = 0
	opts.OnProgress = func(completed, total int) {
		assert.Equal(t, total, len(items))
		progress.Add(1)
	}

	results := CheckURLs(context.Background(), items, opts)

	assert.Equal(t, len(results), len(items))
	want := []Status{Healthy, Dead, Dead, Healthy, Unreachable}
	for i, r := range results {
		assert.Equal(t, r.Item.ID, items[i].ID, "results keep input order")
		assert.Equal(t, r.Status, want[i], r.Item.URL)
	}
	assert.Equal(t, results[4].Error, "Internal Server Error")
	assert.Equal(t, int(progress.Load()), len(items))
	assert.DeepEqual(t, DeadIDs(results), []model.BookmarkID{items[1].ID, items[2].ID})
}

func TestCheckURLs_ExcludedDomainIsNotDead(t *testing.T) {
	srv := newSite(t)
	opts := DefaultOptions()
	opts.ExcludeDomains = []string{"127.0.0.1"}

	results := CheckURLs(context.Background(), []model.BookmarkItem{bookmark(1, srv.URL+"/missing")}, opts)

	assert.Equal(t, results[0].Status, Unreachable)
	assert.Equal(t, results[0].Error, "Possibly private (auth required)")
}

func TestCheckURLs_Cancelled(t *testing.T) {
	srv := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := CheckURLs(ctx, []model.BookmarkItem{bookmark(1, srv.URL+"/ok")}, DefaultOptions())
	assert.Equal(t, results[0].Status, Unreachable)
}

func TestCheckURLs_Empty(t *testing.T) {
	assert.Assert(t, CheckURLs(context.Background(), nil, DefaultOptions()) == nil)
}

func TestBookmarks(t *testing.T) {
	items := []model.BookmarkItem{
		{Title: "folder", IsFolder: true},
		bookmark(1, "https://go.dev"),
		bookmark(2, "chrome://settings"),
	}
	got := Bookmarks(items)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].URL, "https://go.dev")
}

func TestIsExcludedDomain(t *testing.T) {
	exclude := map[string]bool{"github.com": true}
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/me/private", true},
		{"https://api.github.com/repos", true},
		{"https://notgithub.com", false},
		{"https://gitlab.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, isExcludedDomain(tt.url, exclude), tt.want, tt.url)
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup nope.invalid: no such host", "DNS failure"},
		{"Get \"x\": context deadline exceeded (Client.Timeout exceeded)", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS/certificate error"},
		{"something else", "something else"},
	}
	for _, tt := range tests {
		assert.Equal(t, normalizeError(tt.in), tt.want)
	}
}
