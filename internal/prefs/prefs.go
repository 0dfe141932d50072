// Package prefs holds the persisted UI preferences of the bookmark manager.
package prefs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
)

var log = logging.GetLogger("PREFS")

// Keys used in the KV store.
const (
	KeyLastUsedFolder = "bookmarks.last_used_parent"
	KeyLastUsedURL    = "bookmarks.last_used_url"
	KeySortOrder      = "bookmarks.sort_order"
	KeyDisplayMode    = "bookmarks.visuals_enabled"
)

// KV is a persisted string key-value store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SortOrder orders the rows of a folder.
type SortOrder int

const (
	SortManual SortOrder = iota
	SortReverseChronological
	SortChronological
	SortAlphabetical
	SortReverseAlphabetical
	SortRecentlyUsed
)

var sortNames = []string{"manual", "newest", "oldest", "alpha", "reverse-alpha", "recent"}

func (o SortOrder) String() string {
	if o < 0 || int(o) >= len(sortNames) {
		return "unknown"
	}
	return sortNames[o]
}

// SortOrders lists every order, in menu order.
func SortOrders() []SortOrder {
	return []SortOrder{
		SortManual, SortReverseChronological, SortChronological,
		SortAlphabetical, SortReverseAlphabetical, SortRecentlyUsed,
	}
}

// ParseSortOrder accepts the String form.
func ParseSortOrder(s string) (SortOrder, error) {
	for i, name := range sortNames {
		if strings.EqualFold(name, s) {
			return SortOrder(i), nil
		}
	}
	return SortManual, fmt.Errorf("unknown sort order %q", s)
}

// DisplayMode picks compact or visual rows.
type DisplayMode int

const (
	DisplayCompact DisplayMode = iota
	DisplayVisual
)

func (m DisplayMode) String() string {
	if m == DisplayVisual {
		return "visual"
	}
	return "compact"
}

// ParseDisplayMode accepts the String form.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(s) {
	case "compact":
		return DisplayCompact, nil
	case "visual":
		return DisplayVisual, nil
	}
	return DisplayCompact, fmt.Errorf("unknown display mode %q", s)
}

// Observer is told when sort order or display mode change.
type Observer interface {
	SortOrderChanged(SortOrder)
	DisplayModeChanged(DisplayMode)
}

// UiPrefs is the typed facade over KV. Reads fall back to the given
// defaults when a key is unset or unreadable.
type UiPrefs struct {
	kv         KV
	defSort    SortOrder
	defDisplay DisplayMode

	mu        sync.Mutex
	observers []Observer
}

// New wraps kv. defSort and defDisplay come from the config file.
func New(kv KV, defSort SortOrder, defDisplay DisplayMode) *UiPrefs {
	return &UiPrefs{kv: kv, defSort: defSort, defDisplay: defDisplay}
}

func (p *UiPrefs) get(key string) (string, bool) {
	v, ok, err := p.kv.Get(key)
	if err != nil {
		log.Warn("read preference", "key", key, "err", err)
		return "", false
	}
	return v, ok
}

func (p *UiPrefs) set(key, value string) {
	if err := p.kv.Set(key, value); err != nil {
		log.Warn("write preference", "key", key, "err", err)
	}
}

// LastUsedFolder is where the save flow put the last bookmark.
func (p *UiPrefs) LastUsedFolder() (model.BookmarkID, bool) {
	v, ok := p.get(KeyLastUsedFolder)
	if !ok {
		return model.BookmarkID{}, false
	}
	id, err := model.ParseBookmarkID(v)
	if err != nil {
		return model.BookmarkID{}, false
	}
	return id, true
}

// SetLastUsedFolder records the save flow's folder.
func (p *UiPrefs) SetLastUsedFolder(id model.BookmarkID) {
	p.set(KeyLastUsedFolder, id.String())
}

// LastUsedURL is the manager state URL of the previous session.
func (p *UiPrefs) LastUsedURL() string {
	v, _ := p.get(KeyLastUsedURL)
	return v
}

// SetLastUsedURL records the manager state URL.
func (p *UiPrefs) SetLastUsedURL(url string) {
	p.set(KeyLastUsedURL, url)
}

// SortOrder returns the folder sort order.
func (p *UiPrefs) SortOrder() SortOrder {
	v, ok := p.get(KeySortOrder)
	if !ok {
		return p.defSort
	}
	o, err := ParseSortOrder(v)
	if err != nil {
		return p.defSort
	}
	return o
}

// SetSortOrder stores o and notifies observers when it changed.
func (p *UiPrefs) SetSortOrder(o SortOrder) {
	if p.SortOrder() == o {
		return
	}
	p.set(KeySortOrder, o.String())
	for _, obs := range p.snapshotObservers() {
		obs.SortOrderChanged(o)
	}
}

// DisplayMode returns the row display mode.
func (p *UiPrefs) DisplayMode() DisplayMode {
	v, ok := p.get(KeyDisplayMode)
	if !ok {
		return p.defDisplay
	}
	m, err := ParseDisplayMode(v)
	if err != nil {
		return p.defDisplay
	}
	return m
}

// SetDisplayMode stores m and notifies observers when it changed.
func (p *UiPrefs) SetDisplayMode(m DisplayMode) {
	if p.DisplayMode() == m {
		return
	}
	p.set(KeyDisplayMode, m.String())
	for _, obs := range p.snapshotObservers() {
		obs.DisplayModeChanged(m)
	}
}

// AddObserver registers o.
func (p *UiPrefs) AddObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// RemoveObserver unregisters o.
func (p *UiPrefs) RemoveObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.observers {
		if existing == o {
			p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *UiPrefs) snapshotObservers() []Observer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Observer, len(p.observers))
	copy(out, p.observers)
	return out
}
