// Package folderpicker lets the user choose where to move bookmarks.
package folderpicker

import (
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
)

var log = logging.GetLogger("PICK")

var (
	ErrNothingToMove = errors.New("no bookmarks to move")
	ErrInvalidTarget = errors.New("bookmarks cannot be moved here")
)

// RootTitle names the root level.
const RootTitle = "Bookmarks"

// RowKind tells the two row types apart.
type RowKind int

const (
	RowUp RowKind = iota
	RowFolder
)

// Row is one entry of the picker list.
type Row struct {
	Kind    RowKind
	Folder  model.BookmarkItem
	Title   string
	Matched []int // title indexes hit by the filter
}

// Picker holds the folder being browsed and the bookmarks to move.
type Picker struct {
	b       *bridge.Bridge
	moving  []model.BookmarkItem
	folders bool

	current model.BookmarkID
	query   string
	rows    []Row
}

// New starts a picker for ids in the common parent of the moved items,
// or at the root when they come from different folders.
func New(b *bridge.Bridge, ids []model.BookmarkID) (*Picker, error) {
	p := &Picker{b: b, current: b.GetRootFolderID()}
	for _, id := range ids {
		it, ok := b.GetBookmarkByID(id)
		if !ok {
			continue
		}
		p.moving = append(p.moving, it)
		if it.IsFolder {
			p.folders = true
		}
	}
	if len(p.moving) == 0 {
		return nil, ErrNothingToMove
	}

	parent := p.moving[0].ParentID
	for _, it := range p.moving[1:] {
		if it.ParentID != parent {
			parent = b.GetRootFolderID()
			break
		}
	}
	p.current = parent
	p.rebuild()
	return p, nil
}

// Current returns the folder being browsed.
func (p *Picker) Current() model.BookmarkID {
	return p.current
}

// Title names the folder being browsed.
func (p *Picker) Title() string {
	if p.atRoot() {
		return RootTitle
	}
	it, _ := p.b.GetBookmarkByID(p.current)
	return it.Title
}

// Moving returns the bookmarks being moved.
func (p *Picker) Moving() []model.BookmarkItem {
	return p.moving
}

// Rows returns the list to render.
func (p *Picker) Rows() []Row {
	return p.rows
}

// Query returns the active filter.
func (p *Picker) Query() string {
	return p.query
}

func (p *Picker) atRoot() bool {
	return p.current == p.b.GetRootFolderID()
}

// OpenFolder browses into folder and clears the filter.
func (p *Picker) OpenFolder(folder model.BookmarkID) error {
	it, ok := p.b.GetBookmarkByID(folder)
	if !ok || !it.IsFolder || !p.visible(it) {
		return ErrInvalidTarget
	}
	p.current = folder
	p.query = ""
	p.rebuild()
	return nil
}

// Back browses to the parent folder. It returns false at the root.
func (p *Picker) Back() bool {
	if p.atRoot() {
		return false
	}
	it, ok := p.b.GetBookmarkByID(p.current)
	if !ok || !it.ParentID.Valid() {
		p.current = p.b.GetRootFolderID()
	} else {
		p.current = it.ParentID
	}
	p.query = ""
	p.rebuild()
	return true
}

// Filter narrows the folder rows to fuzzy matches of query.
func (p *Picker) Filter(query string) {
	p.query = query
	p.rebuild()
}

// visible reports whether folder may be offered as a destination.
func (p *Picker) visible(folder model.BookmarkItem) bool {
	if !folder.IsEditable || folder.IsManaged {
		return false
	}
	if folder.ID.Type == model.TypeReadingList && p.folders {
		return false
	}
	for _, m := range p.moving {
		if m.IsFolder && p.b.IsDescendant(folder.ID, m.ID) {
			return false
		}
	}
	return true
}

func (p *Picker) candidates() []model.BookmarkItem {
	var ids []model.BookmarkID
	if p.atRoot() {
		ids = p.b.GetTopLevelFolderIDs(true)
	} else {
		ids = p.b.GetChildIDs(p.current)
	}

	var out []model.BookmarkItem
	for _, id := range ids {
		it, ok := p.b.GetBookmarkByID(id)
		if ok && it.IsFolder && p.visible(it) {
			out = append(out, it)
		}
	}
	return out
}

func (p *Picker) rebuild() {
	p.rows = nil
	if !p.atRoot() {
		p.rows = append(p.rows, Row{Kind: RowUp, Title: ".."})
	}

	folders := p.candidates()
	q := strings.TrimSpace(p.query)
	if q == "" {
		for _, f := range folders {
			p.rows = append(p.rows, Row{Kind: RowFolder, Folder: f, Title: f.Title})
		}
		return
	}

	titles := make([]string, len(folders))
	for i, f := range folders {
		titles[i] = f.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(q, titles)
	sort.Stable(ranks)
	for _, r := range ranks {
		f := folders[r.OriginalIndex]
		p.rows = append(p.rows, Row{Kind: RowFolder, Folder: f, Title: f.Title, Matched: matchIndexes(q, f.Title)})
	}
}

// matchIndexes finds the rune positions of a fold-insensitive
// subsequence match, for highlighting.
func matchIndexes(query, title string) []int {
	q := []rune(strings.ToLower(query))
	var out []int
	j := 0
	for i, r := range []rune(strings.ToLower(title)) {
		if j < len(q) && r == q[j] {
			out = append(out, i)
			j++
		}
	}
	if j < len(q) {
		return nil
	}
	return out
}

// CanMoveHere reports whether the current folder is a valid target: it
// must take the moved items and not already hold all of them.
func (p *Picker) CanMoveHere() bool {
	if p.atRoot() {
		return false
	}
	folder, ok := p.b.GetBookmarkByID(p.current)
	if !ok || !p.visible(folder) {
		return false
	}
	for _, m := range p.moving {
		if !m.IsMovable() {
			return false
		}
	}
	for _, m := range p.moving {
		if m.ParentID != p.current {
			return true
		}
	}
	return false
}

// MoveHere moves every item to the end of the current folder.
func (p *Picker) MoveHere() error {
	if !p.CanMoveHere() {
		return ErrInvalidTarget
	}
	ids := make([]model.BookmarkID, 0, len(p.moving))
	for _, m := range p.moving {
		if m.ParentID != p.current {
			ids = append(ids, m.ID)
		}
	}
	if err := p.b.MoveBookmarks(ids, p.current); err != nil {
		return err
	}
	log.Info("moved bookmarks", "count", len(ids), "to", p.current)
	return nil
}

// CreateFolder adds a folder inside the current one and opens it.
func (p *Picker) CreateFolder(title string) (model.BookmarkID, error) {
	if p.atRoot() {
		return model.BookmarkID{}, ErrInvalidTarget
	}
	id, err := p.b.AddFolder(p.current, -1, title)
	if err != nil {
		return model.BookmarkID{}, err
	}
	return id, p.OpenFolder(id)
}
