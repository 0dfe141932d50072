package store

import (
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

type node struct {
	id    int64
	typ   model.BookmarkType
	guid  string
	title string
	url   string

	folder    bool
	permanent bool
	managed   bool

	parent   *node
	children []*node

	added      time.Time
	lastOpened *time.Time
	read       bool
	meta       *model.PowerBookmarkMeta
}

func (n *node) bookmarkID() model.BookmarkID {
	return model.NewID(n.id, n.typ)
}

// editable reports whether the node's contents may change. The root
// only holds permanent folders.
func (n *node) editable() bool {
	return !n.managed && n.id != RootID
}

// movable reports whether the node itself may be moved, renamed or removed.
func (n *node) movable() bool {
	return !n.permanent && !n.managed && n.parent != nil && n.parent.editable()
}

func (n *node) indexOf(child *node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *node) insert(child *node, index int) {
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

func (n *node) removeAt(index int) *node {
	child := n.children[index]
	n.children = append(n.children[:index], n.children[index+1:]...)
	child.parent = nil
	return child
}

// contains reports whether other is n or lies below it.
func (n *node) contains(other *node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// walk visits n and its descendants in pre-order. Returning false
// from fn skips the subtree.
func (n *node) walk(fn func(*node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *node) item() model.BookmarkItem {
	it := model.BookmarkItem{
		ID:          n.bookmarkID(),
		GUID:        n.guid,
		Title:       n.title,
		URL:         n.url,
		IsFolder:    n.folder,
		IsEditable:  n.editable(),
		IsManaged:   n.managed || (n.parent != nil && n.parent.managed),
		IsPermanent: n.permanent,
		DateAdded:   n.added,
		Read:        n.read,
		ChildCount:  len(n.children),
	}
	if n.parent != nil {
		it.ParentID = n.parent.bookmarkID()
	}
	if n.lastOpened != nil {
		t := *n.lastOpened
		it.DateLastOpened = &t
	}
	return it
}
