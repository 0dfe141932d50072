package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// insertIndex validates index against parent; -1 appends.
func insertIndex(parent *node, index int) (int, error) {
	if index == -1 {
		return len(parent.children), nil
	}
	if index < 0 || index > len(parent.children) {
		return 0, fmt.Errorf("%w: %d (have %d children)", ErrInvalidIndex, index, len(parent.children))
	}
	return index, nil
}

// writableFolder resolves a folder that accepts new children.
func (s *Store) writableFolder(id model.BookmarkID) (*node, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	parent, err := s.lookupFolder(id)
	if err != nil {
		return nil, err
	}
	if !parent.editable() {
		return nil, ErrNotEditable
	}
	return parent, nil
}

// AddFolder creates a folder under parent at index (-1 appends).
func (s *Store) AddFolder(parent model.BookmarkID, index int, title string) (model.BookmarkID, error) {
	s.mu.Lock()
	p, err := s.writableFolder(parent)
	if err == nil && p.typ == model.TypeReadingList {
		err = ErrWrongType
	}
	if err != nil {
		s.mu.Unlock()
		return model.BookmarkID{}, err
	}
	idx, err := insertIndex(p, index)
	if err != nil {
		s.mu.Unlock()
		return model.BookmarkID{}, err
	}

	n := &node{
		id:     s.allocID(),
		typ:    p.typ,
		guid:   model.GenerateGUID(),
		title:  strings.TrimSpace(title),
		folder: true,
		added:  s.now(),
	}
	s.attach(n, p, idx)
	ev := s.addedEvent(p, idx)
	s.mu.Unlock()

	log.Debug("folder added", "id", n.id, "parent", p.id)
	s.notify(ev)
	return n.bookmarkID(), nil
}

// AddBookmark creates a URL bookmark under parent at index (-1 appends).
// Reading list entries go through AddToReadingList.
func (s *Store) AddBookmark(parent model.BookmarkID, index int, title, url string) (model.BookmarkID, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.BookmarkID{}, ErrEmptyURL
	}

	s.mu.Lock()
	p, err := s.writableFolder(parent)
	if err == nil && p.typ == model.TypeReadingList {
		err = ErrWrongType
	}
	if err != nil {
		s.mu.Unlock()
		return model.BookmarkID{}, err
	}
	idx, err := insertIndex(p, index)
	if err != nil {
		s.mu.Unlock()
		return model.BookmarkID{}, err
	}

	n := &node{
		id:    s.allocID(),
		typ:   p.typ,
		guid:  model.GenerateGUID(),
		title: defaultTitle(title, url),
		url:   url,
		added: s.now(),
	}
	s.attach(n, p, idx)
	ev := s.addedEvent(p, idx)
	s.mu.Unlock()

	log.Debug("bookmark added", "id", n.id, "parent", p.id, "url", url)
	s.notify(ev)
	return n.bookmarkID(), nil
}

// AddToReadingList appends an unread entry. A URL already on the list
// returns the existing entry.
func (s *Store) AddToReadingList(title, url string) (model.BookmarkID, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.BookmarkID{}, ErrEmptyURL
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return model.BookmarkID{}, ErrNotLoaded
	}
	if c := s.readingListEntry(url); c != nil {
		s.mu.Unlock()
		return c.bookmarkID(), nil
	}
	rl := s.nodes[ReadingListID]

	n := &node{
		id:    s.allocID(),
		typ:   model.TypeReadingList,
		guid:  model.GenerateGUID(),
		title: defaultTitle(title, url),
		url:   url,
		added: s.now(),
	}
	idx := len(rl.children)
	s.attach(n, rl, idx)
	ev := s.addedEvent(rl, idx)
	s.mu.Unlock()

	s.notify(ev)
	return n.bookmarkID(), nil
}

// SetReadStatus marks a reading list entry read or unread.
func (s *Store) SetReadStatus(id model.BookmarkID, read bool) error {
	if id.Type != model.TypeReadingList {
		return ErrWrongType
	}
	return s.change(id, func(n *node) error {
		if n.folder {
			return ErrWrongType
		}
		n.read = read
		return nil
	})
}

// UnreadCount returns the number of unread reading list entries.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.nodes[ReadingListID].children {
		if !c.read {
			count++
		}
	}
	return count
}

// SetTitle renames a node.
func (s *Store) SetTitle(id model.BookmarkID, title string) error {
	return s.change(id, func(n *node) error {
		if !n.movable() {
			return notMovable(n)
		}
		n.title = strings.TrimSpace(title)
		return nil
	})
}

// SetURL changes a bookmark's URL.
func (s *Store) SetURL(id model.BookmarkID, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}
	return s.change(id, func(n *node) error {
		if n.folder {
			return ErrNotFolder
		}
		if !n.movable() {
			return notMovable(n)
		}
		n.url = url
		return nil
	})
}

// UpdateLastOpened records that a bookmark was opened at t.
func (s *Store) UpdateLastOpened(id model.BookmarkID, t time.Time) error {
	return s.change(id, func(n *node) error {
		if n.folder {
			return ErrWrongType
		}
		n.lastOpened = &t
		return nil
	})
}

// change applies fn to a node and emits NodeChanged.
func (s *Store) change(id model.BookmarkID, fn func(*node) error) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	n, err := s.lookup(id)
	if err == nil {
		err = fn(n)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	it := n.item()
	s.mu.Unlock()

	s.notify(func(o Observer) { o.NodeChanged(it) })
	return nil
}

func notMovable(n *node) error {
	if n.permanent {
		return ErrPermanent
	}
	return ErrNotEditable
}

// Move places id under newParent at index (-1 appends). index is
// interpreted against the children before the node is taken out.
//
// Moving between the reading list and bookmark folders copies the
// entry into a new node of the destination type and drops the source,
// so the returned id differs from id.
func (s *Store) Move(id, newParent model.BookmarkID, index int) (model.BookmarkID, error) {
	s.mu.Lock()
	n, p, idx, err := s.checkMove(id, newParent, index)
	if err != nil {
		s.mu.Unlock()
		return model.BookmarkID{}, err
	}

	oldParent := n.parent
	oldIndex := oldParent.indexOf(n)

	if n.typ != p.typ {
		newID, events := s.moveAcrossTypes(n, p, idx)
		s.mu.Unlock()
		s.notify(events...)
		return newID, nil
	}

	if oldParent == p && (idx == oldIndex || idx == oldIndex+1) {
		s.mu.Unlock()
		return n.bookmarkID(), nil
	}

	oldParentItem := oldParent.item()
	oldParent.removeAt(oldIndex)
	if oldParent == p && idx > oldIndex {
		idx--
	}
	p.insert(n, idx)
	oldParentItem.ChildCount = len(oldParent.children)
	newParentItem := p.item()
	s.mu.Unlock()

	log.Debug("node moved", "id", n.id, "from", oldParentItem.ID, "to", newParentItem.ID, "index", idx)
	s.notify(func(o Observer) { o.NodeMoved(oldParentItem, oldIndex, newParentItem, idx) })
	return n.bookmarkID(), nil
}

func (s *Store) checkMove(id, newParent model.BookmarkID, index int) (*node, *node, int, error) {
	if !s.loaded {
		return nil, nil, 0, ErrNotLoaded
	}
	n, err := s.lookup(id)
	if err != nil {
		return nil, nil, 0, err
	}
	if !n.movable() {
		return nil, nil, 0, notMovable(n)
	}
	p, err := s.writableFolder(newParent)
	if err != nil {
		return nil, nil, 0, err
	}
	if n.folder && p.typ == model.TypeReadingList {
		return nil, nil, 0, fmt.Errorf("%w: folders cannot go into the reading list", ErrInvalidMove)
	}
	if n.folder && n.contains(p) {
		return nil, nil, 0, fmt.Errorf("%w: folder into itself", ErrInvalidMove)
	}
	idx, err := insertIndex(p, index)
	if err != nil {
		return nil, nil, 0, err
	}
	return n, p, idx, nil
}

// readingListEntry returns the reading list entry for url, if any.
// Caller holds mu.
func (s *Store) readingListEntry(url string) *node {
	for _, c := range s.nodes[ReadingListID].children {
		if c.url == url {
			return c
		}
	}
	return nil
}

// moveAcrossTypes copies n into p as a fresh node and removes n. A URL
// already on the reading list is not added twice; n is dropped and the
// existing entry returned. Caller holds mu.
func (s *Store) moveAcrossTypes(n, p *node, idx int) (model.BookmarkID, []event) {
	oldParent := n.parent
	oldIndex := oldParent.indexOf(n)
	oldParentItem := oldParent.item()
	removedItem := n.item()

	oldParent.removeAt(oldIndex)
	delete(s.nodes, n.id)
	oldParentItem.ChildCount = len(oldParent.children)
	removed := func(o Observer) { o.NodeRemoved(oldParentItem, oldIndex, removedItem) }

	if p.typ == model.TypeReadingList {
		if existing := s.readingListEntry(n.url); existing != nil {
			log.Debug("already on the reading list", "from", n.id, "entry", existing.id)
			return existing.bookmarkID(), []event{removed}
		}
	}

	c := &node{
		id:    s.allocID(),
		typ:   p.typ,
		guid:  model.GenerateGUID(),
		title: n.title,
		url:   n.url,
		added: n.added,
		meta:  n.meta.Clone(),
	}
	if n.lastOpened != nil {
		t := *n.lastOpened
		c.lastOpened = &t
	}
	s.attach(c, p, idx)

	log.Debug("node moved across types", "from", n.id, "to", c.id, "type", p.typ)
	return c.bookmarkID(), []event{removed, s.addedEvent(p, idx)}
}

// Remove deletes a node and its subtree. The removal can be undone.
func (s *Store) Remove(id model.BookmarkID) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	n, err := s.lookup(id)
	if err == nil && !n.movable() {
		err = notMovable(n)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	ev := s.detach(n, true)
	s.mu.Unlock()

	log.Debug("node removed", "id", id)
	s.notify(ev)
	return nil
}

// RemoveAll deletes every user node. Permanent folders stay. This
// clears the undo history.
func (s *Store) RemoveAll() error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	var events []event
	for _, top := range s.root.children {
		if !top.editable() {
			continue
		}
		for len(top.children) > 0 {
			events = append(events, s.detach(top.children[len(top.children)-1], false))
		}
	}
	s.undo = nil
	s.mu.Unlock()

	if len(events) == 0 {
		return nil
	}
	s.BeginExtensiveChanges()
	s.notify(events...)
	s.EndExtensiveChanges()
	return nil
}

// detach unlinks n, forgets its subtree and returns the NodeRemoved
// event. Caller holds mu.
func (s *Store) detach(n *node, recordUndo bool) event {
	parent := n.parent
	index := parent.indexOf(n)
	removed := n.item()

	if recordUndo {
		s.pushUndo(undoEntry{
			parentID: parent.id,
			index:    index,
			records:  records(n),
		})
	}

	parent.removeAt(index)
	n.walk(func(d *node) bool {
		delete(s.nodes, d.id)
		return true
	})
	parentItem := parent.item()
	return func(o Observer) { o.NodeRemoved(parentItem, index, removed) }
}

// attach links a new node. Caller holds mu.
func (s *Store) attach(n, parent *node, index int) {
	parent.insert(n, index)
	s.nodes[n.id] = n
}

func (s *Store) addedEvent(parent *node, index int) event {
	it := parent.item()
	return func(o Observer) { o.NodeAdded(it, index) }
}

// ReorderChildren sets the child order of parent. ordered must be a
// permutation of the current children.
func (s *Store) ReorderChildren(parent model.BookmarkID, ordered []model.BookmarkID) error {
	s.mu.Lock()
	p, err := s.writableFolder(parent)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if len(ordered) != len(p.children) {
		s.mu.Unlock()
		return ErrInvalidOrder
	}

	children := make([]*node, 0, len(ordered))
	seen := make(map[int64]bool, len(ordered))
	for _, id := range ordered {
		n, err := s.lookup(id)
		if err != nil || n.parent != p || seen[n.id] {
			s.mu.Unlock()
			return ErrInvalidOrder
		}
		seen[n.id] = true
		children = append(children, n)
	}

	if slices.Equal(children, p.children) {
		s.mu.Unlock()
		return nil
	}
	p.children = children
	it := p.item()
	s.mu.Unlock()

	s.notify(func(o Observer) { o.ChildrenReordered(it) })
	return nil
}

// SetPowerMeta attaches meta to a bookmark, replacing any previous one.
func (s *Store) SetPowerMeta(id model.BookmarkID, meta *model.PowerBookmarkMeta) error {
	return s.change(id, func(n *node) error {
		if n.folder {
			return ErrWrongType
		}
		n.meta = meta.Clone()
		return nil
	})
}

// DeletePowerMeta drops the meta of a bookmark.
func (s *Store) DeletePowerMeta(id model.BookmarkID) error {
	return s.change(id, func(n *node) error {
		n.meta = nil
		return nil
	})
}

func defaultTitle(title, url string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return url
}
