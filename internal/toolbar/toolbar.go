// Package toolbar computes what the bookmark manager's toolbar shows.
// Everything here is a pure function of its input.
package toolbar

import (
	"fmt"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

// RootTitle is shown at the root level.
const RootTitle = "Bookmarks"

// NavButton is the button left of the title.
type NavButton int

const (
	NavNone NavButton = iota
	NavBack
)

// Input is the manager state the toolbar depends on.
type Input struct {
	State          uistate.State
	Folder         model.BookmarkItem // current folder, zero outside folder mode
	IsRoot         bool
	ShoppingFilter bool
	Selected       []model.BookmarkItem
	SortOrder      prefs.SortOrder
	DisplayMode    prefs.DisplayMode
}

// Props are the computed toolbar properties.
type Props struct {
	Title     string
	Nav       NavButton
	Selecting bool

	SearchVisible     bool
	EditFolderVisible bool
	NewFolderVisible  bool
	SortMenuVisible   bool

	// selection mode items
	EditVisible       bool
	OpenVisible       bool
	MoveVisible       bool
	DeleteVisible     bool
	MarkReadVisible   bool
	MarkUnreadVisible bool

	CheckedSort    prefs.SortOrder
	CheckedDisplay prefs.DisplayMode
}

// Compute derives the toolbar from in.
func Compute(in Input) Props {
	p := Props{
		CheckedSort:    in.SortOrder,
		CheckedDisplay: in.DisplayMode,
	}

	if len(in.Selected) > 0 {
		return selection(p, in)
	}

	switch in.State.Mode {
	case uistate.ModeLoading:
		p.Title = RootTitle
		return p
	case uistate.ModeSearching:
		p.Title = "Search"
		p.Nav = NavBack
		return p
	}

	switch {
	case in.ShoppingFilter:
		p.Title = "Tracked products"
		p.Nav = NavBack
	case in.IsRoot:
		p.Title = RootTitle
	default:
		p.Title = in.Folder.Title
		p.Nav = NavBack
	}

	editable := in.Folder.IsEditable && !in.Folder.IsManaged && !in.IsRoot && !in.ShoppingFilter
	readingList := in.Folder.ID.Type == model.TypeReadingList

	p.SearchVisible = true
	p.SortMenuVisible = true
	p.EditFolderVisible = editable && !in.Folder.IsPermanent
	p.NewFolderVisible = editable && !readingList
	return p
}

func selection(p Props, in Input) Props {
	p.Selecting = true
	p.Nav = NavBack
	p.Title = fmt.Sprintf("%d selected", len(in.Selected))

	folders, readingItems, unread := 0, 0, 0
	allMovable := true
	for _, it := range in.Selected {
		if it.IsFolder {
			folders++
		}
		if it.IsReadingListItem() {
			readingItems++
			if !it.Read {
				unread++
			}
		}
		if !it.IsMovable() {
			allMovable = false
		}
	}

	p.EditVisible = len(in.Selected) == 1
	p.OpenVisible = folders == 0
	p.MoveVisible = allMovable
	p.DeleteVisible = allMovable

	if readingItems == len(in.Selected) {
		p.MarkReadVisible = unread > 0
		p.MarkUnreadVisible = unread < readingItems
	}
	return p
}
