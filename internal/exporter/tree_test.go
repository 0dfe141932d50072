package exporter

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/golden"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

func treeStore(t *testing.T) (*store.Store, model.BookmarkID) {
	t.Helper()
	s := newStore(t)
	dev, err := s.AddFolder(mobile, -1, "Development")
	assert.NilError(t, err)
	_, err = s.AddBookmark(mobile, -1, "GitHub", "https://github.com")
	assert.NilError(t, err)
	_, err = s.AddBookmark(dev, -1, "Go", "https://go.dev")
	assert.NilError(t, err)
	return s, dev
}

func TestWriteTree(t *testing.T) {
	s, _ := treeStore(t)

	var b strings.Builder
	assert.NilError(t, WriteTree(&b, s, model.BookmarkID{}, TreeOptions{ShowURLs: true}))
	golden.Assert(t, b.String(), "tree.golden")
}

func TestWriteTree_FoldersOnly(t *testing.T) {
	s, _ := treeStore(t)

	var b strings.Builder
	assert.NilError(t, WriteTree(&b, s, model.BookmarkID{}, TreeOptions{FoldersOnly: true}))
	out := b.String()
	assert.Assert(t, is.Contains(out, "Development"))
	assert.Assert(t, !strings.Contains(out, "GitHub"))
}

func TestWriteTree_Subtree(t *testing.T) {
	s, dev := treeStore(t)

	var b strings.Builder
	assert.NilError(t, WriteTree(&b, s, dev, TreeOptions{}))
	assert.Equal(t, b.String(), "Development\n└── Go\n")
}

func TestWriteTree_MaxDepth(t *testing.T) {
	s, _ := treeStore(t)

	var b strings.Builder
	assert.NilError(t, WriteTree(&b, s, mobile, TreeOptions{MaxDepth: 1}))
	assert.Equal(t, b.String(), "Mobile bookmarks\n├── Development\n└── GitHub\n")
}

func TestWriteTree_UnknownRoot(t *testing.T) {
	s, _ := treeStore(t)
	err := WriteTree(&strings.Builder{}, s, model.NewID(9999, model.TypeNormal), TreeOptions{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
