package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

var mobile = model.NewID(store.MobileID, model.TypeNormal)

type testAPI struct {
	t      *testing.T
	b      *bridge.Bridge
	srv    *httptest.Server
	dev    model.BookmarkID
	github model.BookmarkID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	b := bridge.New(store.New(), nil)
	require.NoError(t, b.Load(context.Background()))
	t.Cleanup(b.Destroy)

	dev, err := b.AddFolder(mobile, -1, "Development")
	require.NoError(t, err)
	github, err := b.AddBookmark(mobile, -1, "GitHub", "https://github.com")
	require.NoError(t, err)

	srv := httptest.NewServer(New(b, true))
	t.Cleanup(srv.Close)
	return &testAPI{t: t, b: b, srv: srv, dev: dev, github: github}
}

func (a *testAPI) do(method, path string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListFolders(t *testing.T) {
	api := newTestAPI(t)

	var folders []Folder
	require.Equal(t, http.StatusOK, api.do("GET", "/api/folders", nil, &folders))

	titles := map[string]int{}
	for _, f := range folders {
		titles[f.Title] = f.Depth
	}
	assert.Contains(t, titles, "Mobile bookmarks")
	assert.Contains(t, titles, "Development")
	assert.Greater(t, titles["Development"], titles["Mobile bookmarks"])
}

func TestGetBookmarkAndChildren(t *testing.T) {
	api := newTestAPI(t)

	var it Item
	require.Equal(t, http.StatusOK, api.do("GET", "/api/bookmarks/"+api.github.String(), nil, &it))
	assert.Equal(t, "GitHub", it.Title)
	assert.Equal(t, mobile.String(), it.ParentID)
	assert.True(t, it.Editable)

	var children []Item
	require.Equal(t, http.StatusOK, api.do("GET", "/api/bookmarks/"+mobile.String()+"/children", nil, &children))
	require.Len(t, children, 2)
	assert.Equal(t, "Development", children[0].Title)
	assert.True(t, children[0].IsFolder)
	assert.Equal(t, "https://github.com", children[1].URL)

	assert.Equal(t, http.StatusUnprocessableEntity,
		api.do("GET", "/api/bookmarks/"+api.github.String()+"/children", nil, nil))
}

func TestGetBookmark_Errors(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusBadRequest, api.do("GET", "/api/bookmarks/nope", nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/bookmarks/normal:9999", nil, nil))
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t)

	var results []Item
	require.Equal(t, http.StatusOK, api.do("GET", "/api/search?q=git", nil, &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "GitHub", results[0].Title)

	assert.Equal(t, http.StatusBadRequest, api.do("GET", "/api/search", nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do("GET", "/api/search?q=git&limit=0", nil, nil))
}

func TestAddBookmark(t *testing.T) {
	api := newTestAPI(t)

	var it Item
	require.Equal(t, http.StatusCreated,
		api.do("POST", "/api/bookmarks", AddRequest{Title: "Go", URL: "https://go.dev"}, &it))
	assert.Equal(t, mobile.String(), it.ParentID, "no parent lands in the default folder")
	assert.False(t, it.IsFolder)

	var folder Item
	require.Equal(t, http.StatusCreated,
		api.do("POST", "/api/bookmarks", AddRequest{Parent: api.dev.String(), Title: "Libraries"}, &folder))
	assert.True(t, folder.IsFolder)
	assert.Equal(t, api.dev.String(), folder.ParentID)

	assert.Equal(t, http.StatusBadRequest, api.do("POST", "/api/bookmarks", AddRequest{}, nil))
	assert.Equal(t, http.StatusBadRequest, api.do("POST", "/api/bookmarks", map[string]string{"bogus": "x"}, nil))
}

func TestAddToReadingList(t *testing.T) {
	api := newTestAPI(t)

	var it Item
	require.Equal(t, http.StatusCreated,
		api.do("POST", "/api/reading-list", AddRequest{URL: "https://example.com/article"}, &it))
	assert.Equal(t, "https://example.com/article", it.Title)
	assert.False(t, it.Read)

	read := true
	require.Equal(t, http.StatusOK,
		api.do("PATCH", "/api/bookmarks/"+it.ID, UpdateRequest{Read: &read}, &it))
	assert.True(t, it.Read)
}

func TestUpdateBookmark(t *testing.T) {
	api := newTestAPI(t)

	title, url := "GitHub Home", "https://github.com/home"
	var it Item
	require.Equal(t, http.StatusOK,
		api.do("PATCH", "/api/bookmarks/"+api.github.String(), UpdateRequest{Title: &title, URL: &url}, &it))
	assert.Equal(t, title, it.Title)
	assert.Equal(t, url, it.URL)

	assert.Equal(t, http.StatusForbidden,
		api.do("PATCH", "/api/bookmarks/"+mobile.String(), UpdateRequest{Title: &title}, nil))
}

func TestMoveBookmark(t *testing.T) {
	api := newTestAPI(t)

	var it Item
	require.Equal(t, http.StatusOK,
		api.do("POST", "/api/bookmarks/"+api.github.String()+"/move", MoveRequest{Parent: api.dev.String()}, &it))
	assert.Equal(t, api.dev.String(), it.ParentID)

	assert.Equal(t, http.StatusUnprocessableEntity,
		api.do("POST", "/api/bookmarks/"+api.dev.String()+"/move", MoveRequest{Parent: api.dev.String()}, nil))
}

func TestDeleteAndUndo(t *testing.T) {
	api := newTestAPI(t)
	path := "/api/bookmarks/" + api.github.String()

	assert.Equal(t, http.StatusConflict, api.do("POST", "/api/undo", nil, nil))

	require.Equal(t, http.StatusNoContent, api.do("DELETE", path, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do("GET", path, nil, nil))

	var restored map[string][]string
	require.Equal(t, http.StatusOK, api.do("POST", "/api/undo", nil, &restored))
	assert.Equal(t, []string{api.github.String()}, restored["restored"])
	assert.Equal(t, http.StatusOK, api.do("GET", path, nil, nil))
}

func TestDestroyedBridge(t *testing.T) {
	api := newTestAPI(t)
	api.b.Destroy()

	assert.Equal(t, http.StatusServiceUnavailable, api.do("POST", "/api/undo", nil, nil))
}
