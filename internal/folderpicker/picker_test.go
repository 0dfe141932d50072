package folderpicker_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/folderpicker"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

var mobile = model.NewID(store.MobileID, model.TypeNormal)

func setup(t *testing.T) *bridge.Bridge {
	t.Helper()
	b := bridge.New(store.New(), nil)
	assert.NilError(t, b.Load(context.Background()))
	t.Cleanup(b.Destroy)
	return b
}

func mustFolder(t *testing.T, b *bridge.Bridge, parent model.BookmarkID, title string) model.BookmarkID {
	t.Helper()
	id, err := b.AddFolder(parent, -1, title)
	assert.NilError(t, err)
	return id
}

func rowTitles(p *folderpicker.Picker) []string {
	var out []string
	for _, r := range p.Rows() {
		out = append(out, r.Title)
	}
	return out
}

func TestPicker_ExcludesMovedFolderAndDescendants(t *testing.T) {
	b := setup(t)
	work := mustFolder(t, b, mobile, "Work")
	mustFolder(t, b, work, "Inside work")
	mustFolder(t, b, mobile, "Home")

	p, err := folderpicker.New(b, []model.BookmarkID{work})
	assert.NilError(t, err)
	assert.Equal(t, p.Current(), mobile)
	assert.DeepEqual(t, rowTitles(p), []string{"..", "Home"})

	assert.ErrorIs(t, p.OpenFolder(work), folderpicker.ErrInvalidTarget)
	assert.Assert(t, !p.CanMoveHere(), "already the parent")

	assert.Assert(t, p.Back())
	assert.Equal(t, p.Title(), folderpicker.RootTitle)
	// reading list is hidden while a folder is moved
	assert.DeepEqual(t, rowTitles(p), []string{"Bookmarks bar", "Other bookmarks", "Mobile bookmarks"})
	assert.Assert(t, !p.Back())
	assert.Assert(t, !p.CanMoveHere())
}

func TestPicker_ReadingListOfferedForBookmarks(t *testing.T) {
	b := setup(t)
	id, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	assert.NilError(t, err)

	p, err := folderpicker.New(b, []model.BookmarkID{id})
	assert.NilError(t, err)
	p.Back()
	assert.DeepEqual(t, rowTitles(p), []string{"Bookmarks bar", "Other bookmarks", "Mobile bookmarks", "Reading list"})
}

func TestPicker_Filter(t *testing.T) {
	b := setup(t)
	for _, name := range []string{"Recipes", "Reading", "Travel"} {
		mustFolder(t, b, mobile, name)
	}
	id, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	assert.NilError(t, err)

	p, err := folderpicker.New(b, []model.BookmarkID{id})
	assert.NilError(t, err)

	p.Filter("rec")
	assert.DeepEqual(t, rowTitles(p), []string{"..", "Recipes"})
	assert.DeepEqual(t, p.Rows()[1].Matched, []int{0, 1, 2})

	p.Filter("TRV")
	assert.DeepEqual(t, rowTitles(p), []string{"..", "Travel"})

	p.Filter("")
	assert.Equal(t, len(p.Rows()), 4)
}

func TestPicker_MoveHere(t *testing.T) {
	b := setup(t)
	dest := mustFolder(t, b, mobile, "Dest")
	a, _ := b.AddBookmark(mobile, -1, "A", "https://a.example")
	c, _ := b.AddBookmark(mobile, -1, "C", "https://c.example")

	p, err := folderpicker.New(b, []model.BookmarkID{a, c})
	assert.NilError(t, err)
	assert.NilError(t, p.OpenFolder(dest))
	assert.Assert(t, p.CanMoveHere())
	assert.NilError(t, p.MoveHere())

	assert.DeepEqual(t, b.GetChildIDs(dest), []model.BookmarkID{a, c})
	assert.DeepEqual(t, b.GetChildIDs(mobile), []model.BookmarkID{dest})
}

func TestPicker_CreateFolder(t *testing.T) {
	b := setup(t)
	a, _ := b.AddBookmark(mobile, -1, "A", "https://a.example")

	p, err := folderpicker.New(b, []model.BookmarkID{a})
	assert.NilError(t, err)
	id, err := p.CreateFolder("Fresh")
	assert.NilError(t, err)
	assert.Equal(t, p.Current(), id)
	assert.Assert(t, p.CanMoveHere())
	assert.NilError(t, p.MoveHere())
	assert.DeepEqual(t, b.GetChildIDs(id), []model.BookmarkID{a})
}

func TestPicker_NothingToMove(t *testing.T) {
	b := setup(t)
	_, err := folderpicker.New(b, []model.BookmarkID{model.NewID(999, model.TypeNormal)})
	assert.ErrorIs(t, err, folderpicker.ErrNothingToMove)
}
