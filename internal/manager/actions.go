package manager

import (
	"fmt"
	"slices"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

// DragEnabled reports whether rows of the current list can be
// reordered: a user editable folder in manual order, outside the
// reading list and search.
func (m *Manager) DragEnabled() bool {
	if m.shoppingFilter || m.prefs.SortOrder() != prefs.SortManual {
		return false
	}
	folder, ok := m.CurrentFolder()
	if !ok || !folder.IsEditable || folder.IsManaged {
		return false
	}
	switch folder.ID {
	case m.bridge.GetRootFolderID(), m.bridge.GetReadingListFolder():
		return false
	}
	return true
}

// Move drags the row at from to position to and commits the new child
// order of the current folder.
func (m *Manager) Move(from, to int) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if !m.DragEnabled() {
		return ErrDragDisabled
	}
	if from < 0 || from >= len(m.entries) || to < 0 || to >= len(m.entries) {
		return ErrBadIndex
	}
	if from == to {
		return nil
	}
	e := m.entries[from]
	if !e.HasItem() {
		return ErrBadIndex
	}
	if !e.Item.IsMovable() {
		return fmt.Errorf("%w: %s", ErrNotEditable, e.Item.ID)
	}

	order := slices.Clone(m.entries)
	order = slices.Delete(order, from, from+1)
	order = slices.Insert(order, to, e)

	ids := make([]model.BookmarkID, 0, len(order))
	for _, o := range order {
		if o.HasItem() {
			ids = append(ids, o.Item.ID)
		}
	}
	return m.bridge.ReorderBookmarks(m.State().Folder, ids)
}

// OpenBookmark returns the URL of a bookmark and stamps it as opened.
// Reading list entries are marked read. Folders are navigated into and
// yield "".
func (m *Manager) OpenBookmark(id model.BookmarkID) (string, error) {
	if m.destroyed {
		return "", ErrDestroyed
	}
	item, ok := m.bridge.GetBookmarkByID(id)
	if !ok {
		return "", fmt.Errorf("open %s: not found", id)
	}
	if item.IsFolder {
		return "", m.OpenFolder(id)
	}

	if err := m.bridge.UpdateLastOpened(id, m.now()); err != nil {
		log.Warn("update last opened", "id", id, "err", err)
	}
	if item.IsReadingListItem() && !item.Read {
		if err := m.bridge.SetReadStatus(id, true); err != nil {
			log.Warn("mark read", "id", id, "err", err)
		}
	}
	return item.URL, nil
}

// OpenEntry activates the row at index. It returns a URL when a
// bookmark should be opened.
func (m *Manager) OpenEntry(index int) (string, error) {
	if index < 0 || index >= len(m.entries) {
		return "", ErrBadIndex
	}
	e := m.entries[index]
	switch e.ViewType {
	case model.ViewFolder:
		return "", m.OpenFolder(e.Item.ID)
	case model.ViewBookmark, model.ViewShoppingPowerBookmark:
		return m.OpenBookmark(e.Item.ID)
	case model.ViewShoppingFilter:
		m.OpenShoppingFilter()
	}
	return "", nil
}

// Delete removes the given bookmarks; one Undo brings them back.
func (m *Manager) Delete(ids ...model.BookmarkID) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if len(ids) == 0 {
		return ErrNoSelection
	}
	if err := m.bridge.DeleteBookmarks(ids); err != nil {
		return err
	}
	log.Info("deleted bookmarks", "count", len(ids))
	return nil
}

// DeleteSelected removes the selection and leaves selection mode.
func (m *Manager) DeleteSelected() (int, error) {
	ids := m.SelectedIDs()
	if err := m.Delete(ids...); err != nil {
		return 0, err
	}
	m.ClearSelection()
	return len(ids), nil
}

// Undo restores the last deletion.
func (m *Manager) Undo() error {
	if m.destroyed {
		return ErrDestroyed
	}
	_, err := m.bridge.Undo()
	return err
}

// CanUndo reports whether there is a deletion to restore.
func (m *Manager) CanUndo() bool {
	return !m.destroyed && m.bridge.CanUndo()
}

// MarkSelectedRead sets the read state of the selected reading list
// entries and leaves selection mode.
func (m *Manager) MarkSelectedRead(read bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	var ids []model.BookmarkID
	for _, it := range m.SelectedItems() {
		if it.IsReadingListItem() {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return ErrNoSelection
	}
	m.clearSelection()

	if len(ids) > 1 {
		m.bridge.BeginExtensiveChanges()
		defer m.bridge.EndExtensiveChanges()
	}
	for _, id := range ids {
		if err := m.bridge.SetReadStatus(id, read); err != nil {
			return err
		}
	}
	return nil
}

// Rename sets the title of a bookmark or folder.
func (m *Manager) Rename(id model.BookmarkID, title string) error {
	if m.destroyed {
		return ErrDestroyed
	}
	return m.bridge.SetBookmarkTitle(id, title)
}

// SetURL changes the URL of a bookmark.
func (m *Manager) SetURL(id model.BookmarkID, url string) error {
	if m.destroyed {
		return ErrDestroyed
	}
	return m.bridge.SetBookmarkURL(id, url)
}

// CreateFolder adds a folder at the end of the current folder.
func (m *Manager) CreateFolder(title string) (model.BookmarkID, error) {
	if m.destroyed {
		return model.BookmarkID{}, ErrDestroyed
	}
	if !m.CanCreateFolder() {
		return model.BookmarkID{}, ErrNotEditable
	}
	return m.bridge.AddFolder(m.State().Folder, -1, title)
}

// CanCreateFolder reports whether the current folder takes new folders.
func (m *Manager) CanCreateFolder() bool {
	if m.State().Mode != uistate.ModeFolder || m.shoppingFilter {
		return false
	}
	folder, ok := m.CurrentFolder()
	if !ok || !folder.IsEditable || folder.IsManaged {
		return false
	}
	return folder.ID != m.bridge.GetRootFolderID() && folder.ID.Type == model.TypeNormal
}
