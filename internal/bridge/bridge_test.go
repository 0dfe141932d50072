package bridge_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/storage"
	"github.com/nikbrunner/bmark/internal/store"
)

var mobile = model.NewID(store.MobileID, model.TypeNormal)

type counter struct {
	bridge.BaseObserver
	mu      sync.Mutex
	added   int
	changed int
	loaded  int
}

func (c *counter) NodeAdded(model.BookmarkItem, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.added++
}

func (c *counter) BookmarkModelChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changed++
}

func (c *counter) ModelLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded++
}

func (c *counter) counts() (added, changed, loaded int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.added, c.changed, c.loaded
}

func newLoaded(t *testing.T, st storage.Storage, opts ...bridge.Option) *bridge.Bridge {
	t.Helper()
	b := bridge.New(store.New(), st, opts...)
	require.NoError(t, b.Load(context.Background()))
	t.Cleanup(b.Destroy)
	return b
}

func TestBridge_FanOut(t *testing.T) {
	b := newLoaded(t, nil)
	c := &counter{}
	b.AddObserver(c)

	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)

	added, changed, _ := c.counts()
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, changed)
}

func TestBridge_ExtensiveChangesHoldBackModelChanged(t *testing.T) {
	b := newLoaded(t, nil)
	c := &counter{}
	b.AddObserver(c)

	b.BeginExtensiveChanges()
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		_, err := b.AddBookmark(mobile, -1, "", u)
		require.NoError(t, err)
	}
	added, changed, _ := c.counts()
	assert.Equal(t, 3, added)
	assert.Equal(t, 0, changed)

	b.EndExtensiveChanges()
	_, changed, _ = c.counts()
	assert.Equal(t, 1, changed)
}

func TestBridge_Destroyed(t *testing.T) {
	b := bridge.New(store.New(), nil)
	require.NoError(t, b.Load(context.Background()))
	c := &counter{}
	b.AddObserver(c)

	b.Destroy()
	b.Destroy()

	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	assert.ErrorIs(t, err, bridge.ErrDestroyed)
	assert.ErrorIs(t, b.Load(context.Background()), bridge.ErrDestroyed)
	assert.False(t, b.IsLoaded())
	assert.Nil(t, b.GetChildIDs(mobile))
	_, ok := b.GetBookmarkByID(mobile)
	assert.False(t, ok)

	// the engine still works, the destroyed bridge just stops listening
	_, err = b.Store().AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)
	added, _, _ := c.counts()
	assert.Zero(t, added)
}

func TestBridge_WrongType(t *testing.T) {
	b := newLoaded(t, nil)
	id, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)

	assert.ErrorIs(t, b.SetReadStatus(id, true), bridge.ErrWrongType)
}

func TestBridge_FinishLoadingBookmarkModel(t *testing.T) {
	b := bridge.New(store.New(), nil)
	defer b.Destroy()

	ran := 0
	b.FinishLoadingBookmarkModel(func() { ran++ })
	assert.Equal(t, 0, ran, "must wait for load")

	err := <-b.LoadAsync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ran)

	b.FinishLoadingBookmarkModel(func() { ran++ })
	assert.Equal(t, 2, ran, "runs immediately once loaded")
}

func TestBridge_ObserverRemovesItself(t *testing.T) {
	b := newLoaded(t, nil)
	var self *selfRemoving
	self = &selfRemoving{remove: func() { b.RemoveObserver(self) }}
	other := &counter{}
	b.AddObserver(self)
	b.AddObserver(other)

	for range 2 {
		_, err := b.AddBookmark(mobile, -1, "", "https://x.example")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, self.calls)
	added, _, _ := other.counts()
	assert.Equal(t, 2, added)
}

type selfRemoving struct {
	bridge.BaseObserver
	remove func()
	calls  int
}

func (s *selfRemoving) NodeAdded(model.BookmarkItem, int) {
	s.calls++
	s.remove()
}

func TestBridge_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	st := storage.NewJSONStorage(path)

	b := newLoaded(t, st)
	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)
	assert.True(t, b.Dirty())
	require.NoError(t, b.Flush(context.Background()))
	assert.False(t, b.Dirty())

	again := newLoaded(t, storage.NewJSONStorage(path))
	items := again.GetChildren(mobile)
	require.Len(t, items, 1)
	assert.Equal(t, "Go", items[0].Title)
}

func TestBridge_SaveWithoutStorage(t *testing.T) {
	b := newLoaded(t, nil)
	assert.ErrorIs(t, b.Save(context.Background()), bridge.ErrNoStorage)
}

func TestBridge_AutoSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	b := newLoaded(t, storage.NewJSONStorage(path), bridge.WithAutoSave(10*time.Millisecond))

	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := storage.NewJSONStorage(path).Load()
		return err == nil && len(snap.Nodes) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, b.Dirty())
}

func TestBridge_DeleteBookmarksUndoesAsGroup(t *testing.T) {
	b := newLoaded(t, nil)
	var ids []model.BookmarkID
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		id, err := b.AddBookmark(mobile, -1, "", u)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, b.DeleteBookmarks(ids[:2]))
	assert.Equal(t, 1, b.GetChildCount(mobile))

	restored, err := b.Undo()
	require.NoError(t, err)
	assert.Len(t, restored, 2)
	assert.Equal(t, ids, b.GetChildIDs(mobile))
	assert.False(t, b.CanUndo())
}

func TestBridge_WatchReloadsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	b := newLoaded(t, storage.NewJSONStorage(path))
	require.NoError(t, b.Save(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Watch(ctx, 20*time.Millisecond, nil)

	// another process edits the file
	other, err := store.FromSnapshot(nil)
	require.NoError(t, err)
	_, err = other.AddBookmark(mobile, -1, "External", "https://external.example")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		if err := storage.NewJSONStorage(path).Save(other.Snapshot()); err != nil {
			return false
		}
		return b.GetChildCount(mobile) == 1
	}, 3*time.Second, 100*time.Millisecond)
}

func openSQLite(t *testing.T, path string) *storage.SQLiteStorage {
	t.Helper()
	st, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBridge_ReloadKeepsUnsavedChanges(t *testing.T) {
	b := newLoaded(t, openSQLite(t, filepath.Join(t.TempDir(), "bookmarks.db")))

	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)

	assert.ErrorIs(t, b.Reload(), bridge.ErrUnsaved)
	assert.Equal(t, 1, b.GetChildCount(mobile))
	assert.True(t, b.Dirty())
}

func TestBridge_PrefsWriteDuringWatchKeepsTree(t *testing.T) {
	st := openSQLite(t, filepath.Join(t.TempDir(), "bookmarks.db"))
	b := bridge.New(store.New(), st, bridge.WithAutoSave(time.Hour))
	t.Cleanup(b.Destroy)
	c := &counter{}
	b.AddObserver(c)
	require.NoError(t, b.Load(context.Background()))
	require.NoError(t, b.Save(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Watch(ctx, 20*time.Millisecond, nil)
	time.Sleep(100 * time.Millisecond)

	// unsaved bookmark, then the save flow records the folder
	_, err := b.AddBookmark(mobile, -1, "Go", "https://go.dev")
	require.NoError(t, err)
	require.NoError(t, st.KV().Set("bookmarks.last_used_parent", mobile.String()))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, b.GetChildCount(mobile))
	assert.True(t, b.Dirty())

	// saved tree, then another preference write
	require.NoError(t, b.Save(context.Background()))
	require.NoError(t, st.KV().Set("bookmarks.last_used_url", "bmark://folder/normal:4"))
	time.Sleep(300 * time.Millisecond)

	_, _, loaded := c.counts()
	assert.Equal(t, 1, loaded, "preference writes must not reload the tree")
	assert.Equal(t, 1, b.GetChildCount(mobile))
}

func TestBridge_WatchReloadsExternalSQLiteSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.db")
	b := newLoaded(t, openSQLite(t, path))
	require.NoError(t, b.Save(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Watch(ctx, 20*time.Millisecond, nil)

	other, err := store.FromSnapshot(nil)
	require.NoError(t, err)
	_, err = other.AddBookmark(mobile, -1, "External", "https://external.example")
	require.NoError(t, err)
	writer := openSQLite(t, path)

	require.Eventually(t, func() bool {
		if err := writer.Save(other.Snapshot()); err != nil {
			return false
		}
		return b.GetChildCount(mobile) == 1
	}, 3*time.Second, 100*time.Millisecond)
}
