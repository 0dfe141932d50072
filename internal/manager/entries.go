package manager

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

const (
	unreadHeader = "Unread"
	readHeader   = "Read"

	emptyFolderText      = "No bookmarks here"
	emptyReadingListText = "Your reading list is empty"
	emptySearchText      = "No bookmarks found"
	emptyTrackedText     = "No tracked products"
)

func (m *Manager) buildEntries() []model.BookmarkListEntry {
	s := m.State()
	switch s.Mode {
	case uistate.ModeFolder:
		switch {
		case m.shoppingFilter:
			return m.trackedEntries()
		case s.Folder == m.bridge.GetRootFolderID():
			return m.rootEntries()
		case s.Folder == m.bridge.GetReadingListFolder():
			return m.readingListEntries()
		}
		return m.folderEntries(s.Folder)
	case uistate.ModeSearching:
		return m.searchEntries(s.Query)
	}
	return nil
}

func (m *Manager) entry(item model.BookmarkItem) model.BookmarkListEntry {
	var meta *model.PowerBookmarkMeta
	if !item.IsFolder {
		meta = m.bridge.GetPowerBookmarkMeta(item.ID)
	}
	return model.NewItemEntry(item, meta)
}

func (m *Manager) entriesFor(items []model.BookmarkItem) []model.BookmarkListEntry {
	out := make([]model.BookmarkListEntry, 0, len(items))
	for _, it := range items {
		out = append(out, m.entry(it))
	}
	return out
}

// rootEntries lists the top-level folders, followed by the tracked
// products filter when any bookmark is price tracked.
func (m *Manager) rootEntries() []model.BookmarkListEntry {
	var out []model.BookmarkListEntry
	for _, id := range m.bridge.GetTopLevelFolderIDs(false) {
		if item, ok := m.bridge.GetBookmarkByID(id); ok {
			out = append(out, m.entry(item))
		}
	}
	if len(m.bridge.PriceTrackedIDs()) > 0 {
		out = append(out, model.NewDivider(), model.NewShoppingFilter())
	}
	return out
}

func (m *Manager) folderEntries(folder model.BookmarkID) []model.BookmarkListEntry {
	items := m.bridge.GetChildren(folder)
	if len(items) == 0 {
		return []model.BookmarkListEntry{model.NewEmptyEntry(emptyFolderText)}
	}
	SortItems(items, m.prefs.SortOrder())
	return m.entriesFor(items)
}

// readingListEntries splits the reading list into unread and read
// sections. Empty sections are left out.
func (m *Manager) readingListEntries() []model.BookmarkListEntry {
	items := m.bridge.GetChildren(m.bridge.GetReadingListFolder())
	if len(items) == 0 {
		return []model.BookmarkListEntry{model.NewEmptyEntry(emptyReadingListText)}
	}
	SortItems(items, m.prefs.SortOrder())

	var unread, read []model.BookmarkItem
	for _, it := range items {
		if it.Read {
			read = append(read, it)
		} else {
			unread = append(unread, it)
		}
	}

	var out []model.BookmarkListEntry
	if len(unread) > 0 {
		out = append(out, model.NewSectionHeader(unreadHeader))
		out = append(out, m.entriesFor(unread)...)
	}
	if len(read) > 0 {
		out = append(out, model.NewSectionHeader(readHeader))
		out = append(out, m.entriesFor(read)...)
	}
	return out
}

func (m *Manager) trackedEntries() []model.BookmarkListEntry {
	var items []model.BookmarkItem
	for _, id := range m.bridge.PriceTrackedIDs() {
		if it, ok := m.bridge.GetBookmarkByID(id); ok {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return []model.BookmarkListEntry{model.NewEmptyEntry(emptyTrackedText)}
	}
	SortItems(items, m.prefs.SortOrder())
	return m.entriesFor(items)
}

func (m *Manager) searchEntries(query string) []model.BookmarkListEntry {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	items := m.bridge.SearchBookmarks(query, MaxSearchResults)
	if len(items) == 0 {
		return []model.BookmarkListEntry{model.NewEmptyEntry(emptySearchText)}
	}
	return m.entriesFor(items)
}

// SortItems orders items in place. Every order but manual puts folders
// before bookmarks.
func SortItems(items []model.BookmarkItem, order prefs.SortOrder) {
	if order == prefs.SortManual {
		return
	}
	slices.SortStableFunc(items, func(a, b model.BookmarkItem) int {
		if a.IsFolder != b.IsFolder {
			if a.IsFolder {
				return -1
			}
			return 1
		}
		switch order {
		case prefs.SortReverseChronological:
			return b.DateAdded.Compare(a.DateAdded)
		case prefs.SortChronological:
			return a.DateAdded.Compare(b.DateAdded)
		case prefs.SortAlphabetical:
			return cmp.Compare(sortTitle(a), sortTitle(b))
		case prefs.SortReverseAlphabetical:
			return cmp.Compare(sortTitle(b), sortTitle(a))
		case prefs.SortRecentlyUsed:
			return b.LastUsed().Compare(a.LastUsed())
		}
		return 0
	})
}

func sortTitle(it model.BookmarkItem) string {
	if it.Title != "" {
		return strings.ToLower(it.Title)
	}
	return strings.ToLower(it.URL)
}

// EntryIndex returns the row of id, or -1.
func (m *Manager) EntryIndex(id model.BookmarkID) int {
	return slices.IndexFunc(m.entries, func(e model.BookmarkListEntry) bool {
		return e.HasItem() && e.Item.ID == id
	})
}
