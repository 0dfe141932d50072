package bridge

import (
	"time"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

// ErrWrongType is returned when a type-specific operation gets an id
// of another bookmark type.
var ErrWrongType = store.ErrWrongType

// GetBookmarkByID returns the item, or false when it is missing or the
// bridge is gone.
func (b *Bridge) GetBookmarkByID(id model.BookmarkID) (model.BookmarkItem, bool) {
	if !b.alive() || !id.Valid() {
		return model.BookmarkItem{}, false
	}
	it, err := b.store.Get(id)
	return it, err == nil
}

// DoesBookmarkExist reports whether id references a node.
func (b *Bridge) DoesBookmarkExist(id model.BookmarkID) bool {
	return b.alive() && b.store.Exists(id)
}

// GetChildIDs returns the children of a folder, nil when it is missing.
func (b *Bridge) GetChildIDs(parent model.BookmarkID) []model.BookmarkID {
	if !b.alive() {
		return nil
	}
	ids, err := b.store.ChildIDs(parent)
	if err != nil {
		return nil
	}
	return ids
}

// GetChildren returns copies of a folder's children.
func (b *Bridge) GetChildren(parent model.BookmarkID) []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	items, err := b.store.Children(parent)
	if err != nil {
		return nil
	}
	return items
}

// GetChildCount returns the number of children of a folder.
func (b *Bridge) GetChildCount(parent model.BookmarkID) int {
	if !b.alive() {
		return 0
	}
	n, _ := b.store.ChildCount(parent)
	return n
}

// GetTopLevelFolderIDs lists the folders shown at the root level.
func (b *Bridge) GetTopLevelFolderIDs(includeEmpty bool) []model.BookmarkID {
	if !b.alive() {
		return nil
	}
	return b.store.TopLevelFolderIDs(includeEmpty)
}

// GetRootFolderID returns the hidden root.
func (b *Bridge) GetRootFolderID() model.BookmarkID {
	return b.store.RootFolder()
}

// GetDefaultFolder returns the folder new bookmarks go to by default.
func (b *Bridge) GetDefaultFolder() model.BookmarkID {
	return b.store.DefaultFolder()
}

// GetReadingListFolder returns the reading list root.
func (b *Bridge) GetReadingListFolder() model.BookmarkID {
	return b.store.ReadingListFolder()
}

// GetPartnerFolder returns the partner folder when one exists.
func (b *Bridge) GetPartnerFolder() (model.BookmarkID, bool) {
	return b.store.PartnerFolder()
}

// IsDescendant reports whether id lies inside ancestor, itself included.
func (b *Bridge) IsDescendant(id, ancestor model.BookmarkID) bool {
	return b.alive() && b.store.IsDescendant(id, ancestor)
}

// GetAllFoldersWithDepths lists every folder in pre-order.
func (b *Bridge) GetAllFoldersWithDepths() []store.FolderDepth {
	if !b.alive() {
		return nil
	}
	return b.store.AllFoldersWithDepths()
}

// SearchBookmarks fuzzy searches titles and URLs.
func (b *Bridge) SearchBookmarks(query string, max int) []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	return b.store.Search(query, max)
}

// GetAllBookmarks returns every URL bookmark in tree order.
func (b *Bridge) GetAllBookmarks() []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	return b.store.AllBookmarks()
}

// GetBookmarksByURL returns every bookmark with exactly url.
func (b *Bridge) GetBookmarksByURL(url string) []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	return b.store.BookmarksByURL(url)
}

// MostRecentlyAdded returns up to n normal bookmarks, newest first.
func (b *Bridge) MostRecentlyAdded(n int) []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	return b.store.MostRecentlyAdded(n)
}

// FirstBookmarkDescendants returns up to limit bookmarks below folder.
func (b *Bridge) FirstBookmarkDescendants(folder model.BookmarkID, limit int) []model.BookmarkItem {
	if !b.alive() {
		return nil
	}
	items, _ := b.store.BookmarkDescendants(folder, limit)
	return items
}

// UnreadCount returns the unread reading list entries.
func (b *Bridge) UnreadCount() int {
	if !b.alive() {
		return 0
	}
	return b.store.UnreadCount()
}

// AddFolder creates a folder.
func (b *Bridge) AddFolder(parent model.BookmarkID, index int, title string) (model.BookmarkID, error) {
	if !b.alive() {
		return model.BookmarkID{}, ErrDestroyed
	}
	return b.store.AddFolder(parent, index, title)
}

// AddBookmark creates a URL bookmark.
func (b *Bridge) AddBookmark(parent model.BookmarkID, index int, title, url string) (model.BookmarkID, error) {
	if !b.alive() {
		return model.BookmarkID{}, ErrDestroyed
	}
	return b.store.AddBookmark(parent, index, title, url)
}

// AddToReadingList adds an unread reading list entry.
func (b *Bridge) AddToReadingList(title, url string) (model.BookmarkID, error) {
	if !b.alive() {
		return model.BookmarkID{}, ErrDestroyed
	}
	return b.store.AddToReadingList(title, url)
}

// SetReadStatus marks a reading list entry.
func (b *Bridge) SetReadStatus(id model.BookmarkID, read bool) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.SetReadStatus(id, read)
}

// MoveBookmark moves id under parent at index and returns its id, which
// changes when crossing between the reading list and bookmarks.
func (b *Bridge) MoveBookmark(id, parent model.BookmarkID, index int) (model.BookmarkID, error) {
	if !b.alive() {
		return model.BookmarkID{}, ErrDestroyed
	}
	return b.store.Move(id, parent, index)
}

// MoveBookmarks moves several nodes to the end of parent as one batch.
func (b *Bridge) MoveBookmarks(ids []model.BookmarkID, parent model.BookmarkID) error {
	if !b.alive() {
		return ErrDestroyed
	}
	if len(ids) > 1 {
		b.store.BeginExtensiveChanges()
		defer b.store.EndExtensiveChanges()
	}
	for _, id := range ids {
		if _, err := b.store.Move(id, parent, -1); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBookmark removes a node and its subtree.
func (b *Bridge) DeleteBookmark(id model.BookmarkID) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.Remove(id)
}

// DeleteBookmarks removes several nodes; one Undo restores them all.
func (b *Bridge) DeleteBookmarks(ids []model.BookmarkID) error {
	if !b.alive() {
		return ErrDestroyed
	}
	b.store.StartGroupingUndos()
	defer b.store.EndGroupingUndos()
	if len(ids) > 1 {
		b.store.BeginExtensiveChanges()
		defer b.store.EndExtensiveChanges()
	}
	for _, id := range ids {
		if err := b.store.Remove(id); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAllUserBookmarks empties every editable folder.
func (b *Bridge) RemoveAllUserBookmarks() error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.RemoveAll()
}

// SetBookmarkTitle renames a node.
func (b *Bridge) SetBookmarkTitle(id model.BookmarkID, title string) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.SetTitle(id, title)
}

// SetBookmarkURL changes a bookmark's URL.
func (b *Bridge) SetBookmarkURL(id model.BookmarkID, url string) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.SetURL(id, url)
}

// UpdateLastOpened stamps a bookmark as opened at t.
func (b *Bridge) UpdateLastOpened(id model.BookmarkID, t time.Time) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.UpdateLastOpened(id, t)
}

// ReorderBookmarks sets the child order of parent.
func (b *Bridge) ReorderBookmarks(parent model.BookmarkID, ordered []model.BookmarkID) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.ReorderChildren(parent, ordered)
}

// GetPowerBookmarkMeta returns the meta of a bookmark, nil if none.
func (b *Bridge) GetPowerBookmarkMeta(id model.BookmarkID) *model.PowerBookmarkMeta {
	if !b.alive() {
		return nil
	}
	meta, _ := b.store.PowerMeta(id)
	return meta
}

// SetPowerBookmarkMeta attaches meta to a bookmark.
func (b *Bridge) SetPowerBookmarkMeta(id model.BookmarkID, meta *model.PowerBookmarkMeta) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.SetPowerMeta(id, meta)
}

// DeletePowerBookmarkMeta drops the meta of a bookmark.
func (b *Bridge) DeletePowerBookmarkMeta(id model.BookmarkID) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.DeletePowerMeta(id)
}

// PriceTrackedIDs lists bookmarks with price tracking on.
func (b *Bridge) PriceTrackedIDs() []model.BookmarkID {
	if !b.alive() {
		return nil
	}
	return b.store.PriceTrackedIDs()
}

// Undo restores the last removal group.
func (b *Bridge) Undo() ([]model.BookmarkID, error) {
	if !b.alive() {
		return nil, ErrDestroyed
	}
	return b.store.Undo()
}

// CanUndo reports whether Undo has something to restore.
func (b *Bridge) CanUndo() bool {
	return b.alive() && b.store.CanUndo()
}

// BeginExtensiveChanges starts a batch of changes.
func (b *Bridge) BeginExtensiveChanges() {
	if b.alive() {
		b.store.BeginExtensiveChanges()
	}
}

// EndExtensiveChanges ends a batch of changes.
func (b *Bridge) EndExtensiveChanges() {
	if b.alive() {
		b.store.EndExtensiveChanges()
	}
}
