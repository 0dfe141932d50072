// Package manager decides what the bookmark manager shows. It keeps
// the navigation stack, turns the current state into list entries and
// keeps them fresh as the bookmark model changes.
//
// A Manager is driven from a single UI loop and is not safe for
// concurrent use. Background image lookups come back through the post
// function given to WithImages.
package manager

import (
	"errors"
	"sync"
	"time"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/images"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

var log = logging.GetLogger("MGR")

// MaxSearchResults caps the rows of a search.
const MaxSearchResults = 500

var (
	ErrDestroyed    = errors.New("bookmark manager destroyed")
	ErrNotFolder    = errors.New("not a folder")
	ErrNotEditable  = errors.New("folder is not editable")
	ErrNoSelection  = errors.New("nothing selected")
	ErrDragDisabled = errors.New("reordering is not available here")
	ErrBadIndex     = errors.New("row index out of range")
)

// Manager mediates between the bookmark bridge and a list surface.
type Manager struct {
	bridge  *bridge.Bridge
	prefs   *prefs.UiPrefs
	fetcher *images.Fetcher
	post    func(func())
	now     func() time.Time

	stack          uistate.Stack
	entries        []model.BookmarkListEntry
	shoppingFilter bool
	extensive      bool
	destroyed      bool

	selected []model.BookmarkID
	listener []func()

	imgMu       sync.Mutex
	imgs        map[model.BookmarkID][]images.Image
	imgRequests map[model.BookmarkID]func()

	obs *observer
}

// Option configures a Manager.
type Option func(*Manager)

// WithImages enables image lookups for the visual display mode. The
// fetcher answers on its own goroutines, so post must hand its argument
// to the UI loop. It panics if post is nil.
func WithImages(f *images.Fetcher, post func(func())) Option {
	if post == nil {
		panic("manager: WithImages needs a post function")
	}
	return func(m *Manager) {
		m.fetcher = f
		m.post = post
	}
}

// WithClock replaces time.Now for last-opened stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a manager in the loading state. It switches to the last
// used state, or the default folder, once the model is loaded.
func New(b *bridge.Bridge, p *prefs.UiPrefs, opts ...Option) *Manager {
	m := &Manager{
		bridge:      b,
		prefs:       p,
		now:         time.Now,
		imgs:        map[model.BookmarkID][]images.Image{},
		imgRequests: map[model.BookmarkID]func(){},
	}
	for _, opt := range opts {
		opt(m)
	}

	m.stack.Push(uistate.Loading())
	m.obs = &observer{m: m}
	b.AddObserver(m.obs)
	p.AddObserver(m.obs)
	b.FinishLoadingBookmarkModel(m.onModelLoaded)
	return m
}

func (m *Manager) onModelLoaded() {
	if m.destroyed {
		return
	}
	fallback := m.bridge.GetDefaultFolder()
	state := uistate.ForFolder(fallback)
	if last := m.prefs.LastUsedURL(); last != "" {
		state = uistate.FromURL(last, m.bridge, fallback)
	}
	log.Debug("model loaded", "state", state)

	m.stack.Clear()
	if state.Mode == uistate.ModeSearching {
		m.stack.Push(uistate.ForFolder(fallback))
	}
	m.stack.Push(state)
	m.refresh()
}

// AddListener registers fn to run after the entries or state change.
func (m *Manager) AddListener(fn func()) {
	m.listener = append(m.listener, fn)
}

func (m *Manager) notify() {
	for _, fn := range m.listener {
		fn()
	}
}

// State returns the current state.
func (m *Manager) State() uistate.State {
	s, _ := m.stack.Peek()
	return s
}

// StateStack returns the navigation history, bottom first.
func (m *Manager) StateStack() []uistate.State {
	return m.stack.States()
}

// Entries returns the rows to render.
func (m *Manager) Entries() []model.BookmarkListEntry {
	return m.entries
}

// Bridge returns the bookmark bridge the manager reads.
func (m *Manager) Bridge() *bridge.Bridge {
	return m.bridge
}

// Prefs returns the preference store.
func (m *Manager) Prefs() *prefs.UiPrefs {
	return m.prefs
}

// CurrentFolder returns the folder being shown, false outside folder
// mode.
func (m *Manager) CurrentFolder() (model.BookmarkItem, bool) {
	s := m.State()
	if s.Mode != uistate.ModeFolder {
		return model.BookmarkItem{}, false
	}
	return m.bridge.GetBookmarkByID(s.Folder)
}

// IsRoot reports whether the root level is shown.
func (m *Manager) IsRoot() bool {
	s := m.State()
	return s.Mode == uistate.ModeFolder && s.Folder == m.bridge.GetRootFolderID()
}

// InShoppingFilter reports whether only price tracked bookmarks are shown.
func (m *Manager) InShoppingFilter() bool {
	return m.shoppingFilter
}

// OpenFolder shows folder and remembers it as the last used state.
func (m *Manager) OpenFolder(folder model.BookmarkID) error {
	if m.destroyed {
		return ErrDestroyed
	}
	item, ok := m.bridge.GetBookmarkByID(folder)
	if !ok || !item.IsFolder {
		return ErrNotFolder
	}
	m.setState(uistate.ForFolder(folder))
	return nil
}

// OpenParent shows the parent of the current folder. It returns false
// at the root level.
func (m *Manager) OpenParent() bool {
	cur, ok := m.CurrentFolder()
	if !ok || m.shoppingFilter {
		return false
	}
	if !cur.ParentID.Valid() {
		return false
	}
	return m.OpenFolder(cur.ParentID) == nil
}

// OpenShoppingFilter lists every price tracked bookmark.
func (m *Manager) OpenShoppingFilter() {
	if m.State().Mode != uistate.ModeFolder {
		return
	}
	m.clearSelection()
	m.shoppingFilter = true
	m.refresh()
}

// Search shows results for query. Searching again replaces the
// previous search on the stack.
func (m *Manager) Search(query string) {
	if m.destroyed || m.State().Mode == uistate.ModeLoading {
		return
	}
	m.clearSelection()
	m.shoppingFilter = false
	m.stack.Push(uistate.ForSearch(query))
	m.refresh()
}

// EndSearch leaves search mode.
func (m *Manager) EndSearch() {
	if m.State().Mode != uistate.ModeSearching {
		return
	}
	m.clearSelection()
	m.stack.Pop()
	m.ensureState()
	m.refresh()
}

// OnBackPressed undoes the most recent navigation step. It returns
// false when there is nothing left to go back to.
func (m *Manager) OnBackPressed() bool {
	switch {
	case m.destroyed:
		return false
	case len(m.selected) > 0:
		m.clearSelection()
		m.notify()
		return true
	case m.shoppingFilter:
		m.shoppingFilter = false
		m.refresh()
		return true
	case m.State().Mode == uistate.ModeSearching:
		m.EndSearch()
		return true
	case m.stack.Len() > 1:
		m.stack.Pop()
		m.persist()
		m.refresh()
		return true
	}
	return false
}

func (m *Manager) setState(s uistate.State) {
	m.clearSelection()
	m.shoppingFilter = false
	m.stack.Push(s)
	m.persist()
	m.refresh()
}

// persist records the current folder so the next start returns to it.
func (m *Manager) persist() {
	s := m.State()
	if s.Mode == uistate.ModeFolder {
		m.prefs.SetLastUsedURL(s.URL())
	}
}

// ensureState drops states whose folder disappeared and falls back to
// the default folder when nothing is left.
func (m *Manager) ensureState() {
	if m.State().Mode == uistate.ModeLoading {
		return
	}
	for _, s := range m.stack.States() {
		if s.Mode != uistate.ModeFolder {
			continue
		}
		if item, ok := m.bridge.GetBookmarkByID(s.Folder); !ok || !item.IsFolder {
			m.stack.RemoveFolder(s.Folder)
		}
	}
	if m.stack.Len() == 0 {
		m.stack.Push(uistate.ForFolder(m.bridge.GetDefaultFolder()))
	}
}

// refresh rebuilds the entries and tells the listeners.
func (m *Manager) refresh() {
	if m.destroyed || m.extensive {
		return
	}
	m.ensureState()
	m.entries = m.buildEntries()
	m.pruneSelection()
	m.requestImages()
	m.notify()
}

// Destroy detaches from the model and cancels pending image work.
func (m *Manager) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.bridge.RemoveObserver(m.obs)
	m.prefs.RemoveObserver(m.obs)

	m.imgMu.Lock()
	for id, cancel := range m.imgRequests {
		cancel()
		delete(m.imgRequests, id)
	}
	m.imgMu.Unlock()
	if m.fetcher != nil {
		m.fetcher.Destroy()
	}
	m.listener = nil
}
