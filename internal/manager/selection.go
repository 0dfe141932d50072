package manager

import (
	"slices"

	"github.com/nikbrunner/bmark/internal/model"
)

// Toggle flips the selection of id and reports whether it is now
// selected. Rows that cannot be edited are never selected.
func (m *Manager) Toggle(id model.BookmarkID) bool {
	if i := slices.Index(m.selected, id); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		m.notify()
		return false
	}
	if m.EntryIndex(id) < 0 {
		return false
	}
	item, ok := m.bridge.GetBookmarkByID(id)
	if !ok || !item.IsEditable || item.IsPermanent {
		return false
	}
	m.selected = append(m.selected, id)
	m.notify()
	return true
}

// ClearSelection leaves selection mode.
func (m *Manager) ClearSelection() {
	if len(m.selected) == 0 {
		return
	}
	m.clearSelection()
	m.notify()
}

func (m *Manager) clearSelection() {
	m.selected = nil
}

// SelectedIDs returns the selection in the order it was made.
func (m *Manager) SelectedIDs() []model.BookmarkID {
	return slices.Clone(m.selected)
}

// SelectedItems returns the selected bookmarks.
func (m *Manager) SelectedItems() []model.BookmarkItem {
	out := make([]model.BookmarkItem, 0, len(m.selected))
	for _, id := range m.selected {
		if it, ok := m.bridge.GetBookmarkByID(id); ok {
			out = append(out, it)
		}
	}
	return out
}

// IsSelected reports whether id is selected.
func (m *Manager) IsSelected(id model.BookmarkID) bool {
	return slices.Contains(m.selected, id)
}

// SelectionActive reports whether anything is selected.
func (m *Manager) SelectionActive() bool {
	return len(m.selected) > 0
}

// pruneSelection drops ids that are no longer listed.
func (m *Manager) pruneSelection() {
	m.selected = slices.DeleteFunc(m.selected, func(id model.BookmarkID) bool {
		return m.EntryIndex(id) < 0
	})
}
