package manager

import (
	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

// observer keeps the model and preference callbacks off the Manager API.
type observer struct {
	bridge.BaseObserver
	m *Manager
}

var (
	_ bridge.Observer = (*observer)(nil)
	_ prefs.Observer  = (*observer)(nil)
)

// NodeRemoved falls back to the removed folder's parent when the
// folder being shown, or one of its ancestors, went away.
func (o *observer) NodeRemoved(parent model.BookmarkItem, _ int, node model.BookmarkItem) {
	m := o.m
	if m.destroyed || !node.IsFolder {
		return
	}
	s := m.State()
	if s.Mode != uistate.ModeFolder || m.bridge.DoesBookmarkExist(s.Folder) {
		return
	}

	log.Debug("current folder removed", "folder", s.Folder, "parent", parent.ID)
	m.ensureState()
	if m.bridge.DoesBookmarkExist(parent.ID) {
		m.clearSelection()
		m.shoppingFilter = false
		m.stack.Push(uistate.ForFolder(parent.ID))
		m.persist()
	}
}

func (o *observer) ExtensiveChangesBeginning() {
	o.m.extensive = true
}

func (o *observer) ExtensiveChangesEnded() {
	o.m.extensive = false
}

// BookmarkModelChanged arrives after every change, and once at the end
// of extensive changes.
func (o *observer) BookmarkModelChanged() {
	o.m.refresh()
}

func (o *observer) SortOrderChanged(prefs.SortOrder) {
	o.m.refresh()
}

func (o *observer) DisplayModeChanged(prefs.DisplayMode) {
	o.m.refresh()
}
