package store

import (
	"sort"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/search"
)

// FolderDepth is a folder with its depth below the top level.
type FolderDepth struct {
	Item  model.BookmarkItem
	Depth int
}

// Get returns a copy of the node.
func (s *Store) Get(id model.BookmarkID) (model.BookmarkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.lookup(id)
	if err != nil {
		return model.BookmarkItem{}, err
	}
	return n.item(), nil
}

// Exists reports whether id references a node.
func (s *Store) Exists(id model.BookmarkID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.lookup(id)
	return err == nil
}

// ChildIDs returns the ordered child ids of a folder.
func (s *Store) ChildIDs(parent model.BookmarkID) ([]model.BookmarkID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.lookupFolder(parent)
	if err != nil {
		return nil, err
	}
	ids := make([]model.BookmarkID, len(p.children))
	for i, c := range p.children {
		ids[i] = c.bookmarkID()
	}
	return ids, nil
}

// Children returns copies of a folder's children in order.
func (s *Store) Children(parent model.BookmarkID) ([]model.BookmarkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.lookupFolder(parent)
	if err != nil {
		return nil, err
	}
	items := make([]model.BookmarkItem, len(p.children))
	for i, c := range p.children {
		items[i] = c.item()
	}
	return items, nil
}

// ChildCount returns the number of direct children of a folder.
func (s *Store) ChildCount(parent model.BookmarkID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.lookupFolder(parent)
	if err != nil {
		return 0, err
	}
	return len(p.children), nil
}

// RootFolder returns the hidden root id.
func (s *Store) RootFolder() model.BookmarkID {
	return model.NewID(RootID, model.TypeNormal)
}

// DefaultFolder is where new bookmarks go when nothing else is known.
func (s *Store) DefaultFolder() model.BookmarkID {
	return model.NewID(MobileID, model.TypeNormal)
}

// ReadingListFolder returns the reading list root.
func (s *Store) ReadingListFolder() model.BookmarkID {
	return model.NewID(ReadingListID, model.TypeReadingList)
}

// PartnerFolder returns the partner folder, if the store has one.
func (s *Store) PartnerFolder() (model.BookmarkID, bool) {
	return model.NewID(PartnerID, model.TypePartner), s.withPartner
}

// TopLevelFolderIDs lists the folders shown at the root level.
// The bookmarks bar, other bookmarks and partner folder are skipped
// while empty unless includeEmpty is set. Mobile bookmarks and the
// reading list are always listed.
func (s *Store) TopLevelFolderIDs(includeEmpty bool) []model.BookmarkID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []model.BookmarkID
	for _, n := range s.root.children {
		alwaysShown := n.id == MobileID || n.id == ReadingListID
		if !alwaysShown && !includeEmpty && len(n.children) == 0 {
			continue
		}
		ids = append(ids, n.bookmarkID())
	}
	return ids
}

// IsDescendant reports whether id lies inside ancestor's subtree. A
// node counts as inside its own subtree.
func (s *Store) IsDescendant(id, ancestor model.BookmarkID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.lookup(id)
	if err != nil {
		return false
	}
	a, err := s.lookup(ancestor)
	if err != nil {
		return false
	}
	return a.contains(n)
}

// AllFoldersWithDepths lists every folder below the root in pre-order.
// Top-level folders have depth 0.
func (s *Store) AllFoldersWithDepths() []FolderDepth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []FolderDepth
	var visit func(n *node, depth int)
	visit = func(n *node, depth int) {
		for _, c := range n.children {
			if !c.folder {
				continue
			}
			out = append(out, FolderDepth{Item: c.item(), Depth: depth})
			visit(c, depth+1)
		}
	}
	visit(s.root, 0)
	return out
}

// Search fuzzy matches query against bookmark titles and URLs. Folders
// are never returned. max <= 0 means no limit.
func (s *Store) Search(query string, max int) []model.BookmarkItem {
	results := search.Rank(query, s.allBookmarks())
	if max > 0 && len(results) > max {
		results = results[:max]
	}
	return search.Items(results)
}

// AllBookmarks returns every URL bookmark in tree order.
func (s *Store) AllBookmarks() []model.BookmarkItem {
	return s.allBookmarks()
}

func (s *Store) allBookmarks() []model.BookmarkItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []model.BookmarkItem
	s.root.walk(func(n *node) bool {
		if !n.folder {
			items = append(items, n.item())
		}
		return true
	})
	return items
}

// BookmarksByURL returns every bookmark whose URL equals url.
func (s *Store) BookmarksByURL(url string) []model.BookmarkItem {
	var out []model.BookmarkItem
	for _, it := range s.allBookmarks() {
		if it.URL == url {
			out = append(out, it)
		}
	}
	return out
}

// MostRecentlyAdded returns up to n normal bookmarks, newest first.
func (s *Store) MostRecentlyAdded(n int) []model.BookmarkItem {
	var items []model.BookmarkItem
	for _, it := range s.allBookmarks() {
		if it.ID.Type == model.TypeNormal {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DateAdded.After(items[j].DateAdded)
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// BookmarkDescendants returns up to limit URL nodes below folder in
// pre-order.
func (s *Store) BookmarkDescendants(folder model.BookmarkID, limit int) ([]model.BookmarkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.lookupFolder(folder)
	if err != nil {
		return nil, err
	}
	var out []model.BookmarkItem
	f.walk(func(n *node) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		if !n.folder {
			out = append(out, n.item())
		}
		return true
	})
	return out, nil
}

// PowerMeta returns a copy of a bookmark's meta, nil when it has none.
func (s *Store) PowerMeta(id model.BookmarkID) (*model.PowerBookmarkMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return n.meta.Clone(), nil
}

// PriceTrackedIDs lists bookmarks with price tracking enabled.
func (s *Store) PriceTrackedIDs() []model.BookmarkID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []model.BookmarkID
	s.root.walk(func(n *node) bool {
		if n.meta.IsPriceTracked() {
			ids = append(ids, n.bookmarkID())
		}
		return true
	})
	return ids
}
