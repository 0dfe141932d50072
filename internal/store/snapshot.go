package store

import (
	"sort"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

// Snapshot is the flat, persistable form of the tree. Nodes are in
// pre-order, so a parent always precedes its children. Permanent
// folders are implied and never listed.
type Snapshot struct {
	Version int          `json:"version"`
	NextID  int64        `json:"nextId"`
	Nodes   []NodeRecord `json:"nodes"`
}

// NodeRecord is one persisted node.
type NodeRecord struct {
	ID             int64                    `json:"id"`
	Type           model.BookmarkType       `json:"type"`
	GUID           string                   `json:"guid"`
	ParentID       int64                    `json:"parentId"`
	Index          int                      `json:"index"`
	Title          string                   `json:"title"`
	URL            string                   `json:"url,omitempty"`
	IsFolder       bool                     `json:"isFolder,omitempty"`
	DateAdded      time.Time                `json:"dateAdded"`
	DateLastOpened *time.Time               `json:"dateLastOpened,omitempty"`
	Read           bool                     `json:"read,omitempty"`
	Meta           *model.PowerBookmarkMeta `json:"meta,omitempty"`
}

// Snapshot captures the user nodes of the tree.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{Version: SnapshotVersion, NextID: s.nextID}
	for _, top := range s.root.children {
		for _, c := range top.children {
			snap.Nodes = append(snap.Nodes, records(c)...)
		}
	}
	return snap
}

// FromSnapshot builds a loaded store from snap.
func FromSnapshot(snap *Snapshot, opts ...Option) (*Store, error) {
	s := New(opts...)
	if err := s.Load(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// records flattens n's subtree in pre-order.
func records(n *node) []NodeRecord {
	var out []NodeRecord
	n.walk(func(d *node) bool {
		rec := NodeRecord{
			ID:        d.id,
			Type:      d.typ,
			GUID:      d.guid,
			Title:     d.title,
			URL:       d.url,
			IsFolder:  d.folder,
			DateAdded: d.added,
			Read:      d.read,
			Meta:      d.meta.Clone(),
		}
		if d.parent != nil {
			rec.ParentID = d.parent.id
			rec.Index = d.parent.indexOf(d)
		}
		if d.lastOpened != nil {
			t := *d.lastOpened
			rec.DateLastOpened = &t
		}
		out = append(out, rec)
		return true
	})
	return out
}

// applySnapshot rebuilds user nodes on top of the permanent skeleton.
// Records whose parent is unknown land in "Other bookmarks"; records
// with a clashing id get a fresh one. Caller holds mu.
func (s *Store) applySnapshot(snap *Snapshot) error {
	if snap == nil {
		return nil
	}

	maxID := s.nextID - 1
	for _, rec := range snap.Nodes {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	s.nextID = max(snap.NextID, maxID+1, firstUserID)

	remap := make(map[int64]*node, len(snap.Nodes))
	positions := make(map[*node]int, len(snap.Nodes))
	touched := make(map[*node]bool)

	for _, rec := range snap.Nodes {
		parent := s.snapshotParent(rec, remap)
		n := s.nodeFromRecord(rec, parent)
		if n == nil {
			continue
		}
		remap[rec.ID] = n
		positions[n] = rec.Index
		parent.children = append(parent.children, n)
		n.parent = parent
		touched[parent] = true
	}

	for p := range touched {
		sort.SliceStable(p.children, func(i, j int) bool {
			pi, iok := positions[p.children[i]]
			pj, jok := positions[p.children[j]]
			if !iok || !jok {
				return false
			}
			return pi < pj
		})
	}
	return nil
}

func (s *Store) snapshotParent(rec NodeRecord, remap map[int64]*node) *node {
	if p, ok := remap[rec.ParentID]; ok && p.folder {
		return p
	}
	if p, ok := s.nodes[rec.ParentID]; ok && p.permanent && p.id != RootID {
		return p
	}
	log.Warn("orphaned node moved to other bookmarks", "id", rec.ID, "parent", rec.ParentID)
	return s.nodes[OtherID]
}

// nodeFromRecord creates the node for rec under parent, or nil when
// the record cannot live there.
func (s *Store) nodeFromRecord(rec NodeRecord, parent *node) *node {
	if parent.typ == model.TypeReadingList && rec.IsFolder {
		log.Warn("dropping folder found in reading list", "id", rec.ID)
		return nil
	}
	if !rec.IsFolder && rec.URL == "" {
		log.Warn("dropping bookmark without url", "id", rec.ID)
		return nil
	}

	id := rec.ID
	if _, taken := s.nodes[id]; taken || id < firstUserID {
		id = s.allocID()
	}
	guid := rec.GUID
	if !model.ValidGUID(guid) {
		guid = model.GenerateGUID()
	}

	n := &node{
		id:     id,
		typ:    parent.typ,
		guid:   guid,
		title:  rec.Title,
		url:    rec.URL,
		folder: rec.IsFolder,
		added:  rec.DateAdded,
		read:   rec.Read,
		meta:   rec.Meta.Clone(),
	}
	if rec.DateLastOpened != nil {
		t := *rec.DateLastOpened
		n.lastOpened = &t
	}
	s.nodes[id] = n
	return n
}
