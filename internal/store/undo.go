package store

import "github.com/nikbrunner/bmark/internal/model"

type undoEntry struct {
	group    int
	parentID int64
	index    int
	records  []NodeRecord
}

// StartGroupingUndos makes the removals until the matching
// EndGroupingUndos restore together.
func (s *Store) StartGroupingUndos() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grouping == 0 {
		s.groupSeq++
	}
	s.grouping++
}

// EndGroupingUndos closes a group opened with StartGroupingUndos.
func (s *Store) EndGroupingUndos() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grouping > 0 {
		s.grouping--
	}
}

func (s *Store) pushUndo(e undoEntry) {
	if s.grouping > 0 {
		e.group = s.groupSeq
	} else {
		s.groupSeq++
		e.group = s.groupSeq
	}
	s.undo = append(s.undo, e)
	if len(s.undo) > MaxUndo {
		s.undo = s.undo[len(s.undo)-MaxUndo:]
	}
}

// CanUndo reports whether there is a removal to restore.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.undo) > 0
}

// Undo restores the most recent removal, or removal group, with the
// original ids, positions and meta. If an old parent is gone the
// subtree lands in "Other bookmarks". It returns the restored ids.
func (s *Store) Undo() ([]model.BookmarkID, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if len(s.undo) == 0 {
		s.mu.Unlock()
		return nil, ErrNothingUndo
	}

	group := s.undo[len(s.undo)-1].group
	var ids []model.BookmarkID
	var events []event
	for len(s.undo) > 0 && s.undo[len(s.undo)-1].group == group {
		e := s.undo[len(s.undo)-1]
		s.undo = s.undo[:len(s.undo)-1]
		if id, ev, ok := s.restore(e); ok {
			ids = append(ids, id)
			events = append(events, ev)
		}
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil, ErrNothingUndo
	}
	log.Debug("removal undone", "ids", ids)
	if len(events) > 1 {
		s.BeginExtensiveChanges()
		defer s.EndExtensiveChanges()
	}
	s.notify(events...)
	return ids, nil
}

// restore re-inserts one removed subtree. Caller holds mu.
func (s *Store) restore(e undoEntry) (model.BookmarkID, event, bool) {
	parent, ok := s.nodes[e.parentID]
	if !ok || !parent.folder || !parent.editable() {
		parent = s.nodes[OtherID]
		e.index = len(parent.children)
	}
	index := min(max(e.index, 0), len(parent.children))

	remap := make(map[int64]*node, len(e.records))
	var top *node
	for i, rec := range e.records {
		var p *node
		if i == 0 {
			p = parent
		} else if p = remap[rec.ParentID]; p == nil {
			continue
		}
		n := s.nodeFromRecord(rec, p)
		if n == nil {
			continue
		}
		remap[rec.ID] = n
		if i == 0 {
			parent.insert(n, index)
			top = n
			continue
		}
		p.children = append(p.children, n)
		n.parent = p
	}
	if top == nil {
		return model.BookmarkID{}, nil, false
	}
	return top.bookmarkID(), s.addedEvent(parent, index), true
}
