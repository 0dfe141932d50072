package uistate_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/uistate"
)

var (
	mobile = model.NewID(4, model.TypeNormal)
	work   = model.NewID(120, model.TypeNormal)
	page   = model.NewID(121, model.TypeNormal)
)

type fakeBookmarks map[model.BookmarkID]model.BookmarkItem

func (f fakeBookmarks) GetBookmarkByID(id model.BookmarkID) (model.BookmarkItem, bool) {
	it, ok := f[id]
	return it, ok
}

var bookmarks = fakeBookmarks{
	mobile: {ID: mobile, IsFolder: true},
	work:   {ID: work, IsFolder: true},
	page:   {ID: page, URL: "https://page.example"},
}

func TestState_URLRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state uistate.State
		url   string
	}{
		{"folder", uistate.ForFolder(work), "bmark://folder/normal:120"},
		{"search", uistate.ForSearch("go lang"), "bmark://search?q=go+lang"},
		{"empty search", uistate.ForSearch(""), "bmark://search?q="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.state.URL(), tt.url)
			got := uistate.FromURL(tt.url, bookmarks, mobile)
			assert.Assert(t, got.Equal(tt.state), "got %v", got)
		})
	}
}

func TestFromURL_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"wrong scheme", "https://folder/normal:120"},
		{"bad id", "bmark://folder/nope"},
		{"missing folder", "bmark://folder/normal:999"},
		{"not a folder", "bmark://folder/normal:121"},
		{"unknown host", "bmark://settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uistate.FromURL(tt.url, bookmarks, mobile)
			assert.Assert(t, got.Equal(uistate.ForFolder(mobile)), "got %v", got)
		})
	}
}

func TestState_Equal(t *testing.T) {
	assert.Assert(t, uistate.Loading().Equal(uistate.Loading()))
	assert.Assert(t, uistate.ForFolder(work).Equal(uistate.ForFolder(work)))
	assert.Assert(t, !uistate.ForFolder(work).Equal(uistate.ForFolder(mobile)))
	assert.Assert(t, !uistate.ForSearch("a").Equal(uistate.ForSearch("b")))
	assert.Assert(t, !uistate.ForSearch("").Equal(uistate.Loading()))
}

func TestStack_Push(t *testing.T) {
	var st uistate.Stack
	st.Push(uistate.ForFolder(mobile))
	st.Push(uistate.ForFolder(mobile))
	assert.Equal(t, st.Len(), 1, "equal push is ignored")

	st.Push(uistate.ForSearch("g"))
	st.Push(uistate.ForSearch("go"))
	assert.Equal(t, st.Len(), 2, "search replaces search")

	top, ok := st.Peek()
	assert.Assert(t, ok)
	assert.Equal(t, top.Query, "go")

	popped, _ := st.Pop()
	assert.Equal(t, popped.Mode, uistate.ModeSearching)
	top, _ = st.Peek()
	assert.Assert(t, top.Equal(uistate.ForFolder(mobile)))

	st.Pop()
	_, ok = st.Pop()
	assert.Assert(t, !ok)
}

func TestStack_RemoveFolder(t *testing.T) {
	var st uistate.Stack
	st.Push(uistate.ForFolder(mobile))
	st.Push(uistate.ForFolder(work))
	st.Push(uistate.ForFolder(mobile))
	st.Push(uistate.ForFolder(work))

	st.RemoveFolder(work)

	assert.DeepEqual(t, st.States(), []uistate.State{uistate.ForFolder(mobile)})
}
