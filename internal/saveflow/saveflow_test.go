package saveflow_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/saveflow"
	"github.com/nikbrunner/bmark/internal/store"
)

var mobile = model.NewID(store.MobileID, model.TypeNormal)

func setup(t *testing.T) (*saveflow.Flow, *bridge.Bridge, *prefs.UiPrefs) {
	t.Helper()
	b := bridge.New(store.New(), nil)
	assert.NilError(t, b.Load(context.Background()))
	t.Cleanup(b.Destroy)
	p := prefs.New(prefs.NewMemoryKV(), prefs.SortManual, prefs.DisplayCompact)
	return saveflow.New(b, p), b, p
}

func TestFlow_SaveNewGoesToDefaultFolder(t *testing.T) {
	f, _, p := setup(t)

	s, err := f.Save("Go", "https://go.dev")
	assert.NilError(t, err)
	assert.Assert(t, s.WasNew)
	assert.Equal(t, s.Folder, mobile)
	assert.Equal(t, s.FolderName, "Mobile bookmarks")
	assert.Assert(t, s.EditVisible && s.MoveVisible)
	assert.Assert(t, !s.PriceTrackingAvailable)

	last, ok := p.LastUsedFolder()
	assert.Assert(t, ok)
	assert.Equal(t, last, mobile)
}

func TestFlow_SaveReusesExistingBookmark(t *testing.T) {
	f, b, _ := setup(t)
	id, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	assert.NilError(t, err)

	s, err := f.Save("Other title", "https://go.dev")
	assert.NilError(t, err)
	assert.Assert(t, !s.WasNew)
	assert.Equal(t, s.ID, id)
	assert.Equal(t, b.GetChildCount(mobile), 1)
}

func TestFlow_LastUsedFolder(t *testing.T) {
	f, b, p := setup(t)
	work, err := b.AddFolder(mobile, -1, "Work")
	assert.NilError(t, err)
	p.SetLastUsedFolder(work)

	s, err := f.Save("Go", "https://go.dev")
	assert.NilError(t, err)
	assert.Equal(t, s.Folder, work)

	// a deleted last used folder falls back to the default
	assert.NilError(t, b.DeleteBookmark(work))
	s, err = f.Save("Rust", "https://rust-lang.org")
	assert.NilError(t, err)
	assert.Equal(t, s.Folder, mobile)
}

func TestFlow_OnFolderChosen(t *testing.T) {
	f, b, p := setup(t)
	work, _ := b.AddFolder(mobile, -1, "Work")
	_, err := f.Save("Go", "https://go.dev")
	assert.NilError(t, err)

	s, err := f.OnFolderChosen(work)
	assert.NilError(t, err)
	assert.Equal(t, s.Folder, work)
	assert.Equal(t, s.FolderName, "Work")
	last, _ := p.LastUsedFolder()
	assert.Equal(t, last, work)

	s, err = f.OnFolderChosen(b.GetReadingListFolder())
	assert.NilError(t, err)
	assert.Equal(t, s.ID.Type, model.TypeReadingList)
	last, _ = p.LastUsedFolder()
	assert.Equal(t, last, work, "the reading list is not remembered")
}

func TestFlow_PriceTracking(t *testing.T) {
	f, b, _ := setup(t)
	s, err := f.Save("Shoe", "https://shop.example/shoe")
	assert.NilError(t, err)

	_, err = f.SetPriceTracked(true)
	assert.ErrorIs(t, err, saveflow.ErrNoShopping)

	assert.NilError(t, b.SetPowerBookmarkMeta(s.ID, &model.PowerBookmarkMeta{
		Shopping: &model.ShoppingSpecifics{ProductClusterID: 1, CurrencyCode: "USD", CurrentPrice: 19_990_000},
	}))
	s, err = f.State()
	assert.NilError(t, err)
	assert.Assert(t, s.PriceTrackingAvailable)
	assert.Assert(t, !s.PriceTracked)
	assert.Equal(t, s.Price, "$19.99")

	s, err = f.SetPriceTracked(true)
	assert.NilError(t, err)
	assert.Assert(t, s.PriceTracked)
	assert.DeepEqual(t, b.PriceTrackedIDs(), []model.BookmarkID{s.ID})
}

func TestFlow_Unsave(t *testing.T) {
	f, b, _ := setup(t)
	_, err := f.Save("Go", "https://go.dev")
	assert.NilError(t, err)

	assert.NilError(t, f.Unsave())
	assert.Equal(t, b.GetChildCount(mobile), 0)
	assert.ErrorIs(t, f.Unsave(), saveflow.ErrNotSaved)
	_, err = f.State()
	assert.ErrorIs(t, err, saveflow.ErrNotSaved)
}

func TestFlow_EmptyURL(t *testing.T) {
	f, _, _ := setup(t)
	_, err := f.Save("x", "   ")
	assert.ErrorIs(t, err, saveflow.ErrEmptyURL)
}
