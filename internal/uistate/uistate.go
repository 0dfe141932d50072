// Package uistate models what the bookmark manager is showing: a
// loading placeholder, a folder, or search results.
package uistate

import (
	"net/url"
	"strings"

	"github.com/nikbrunner/bmark/internal/model"
)

// Scheme prefixes every state URL.
const Scheme = "bmark"

// Mode is the kind of state.
type Mode int

const (
	ModeLoading Mode = iota
	ModeFolder
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeFolder:
		return "folder"
	case ModeSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// State is one screen of the manager. Folder is set in ModeFolder and
// Query in ModeSearching.
type State struct {
	Mode   Mode
	Folder model.BookmarkID
	Query  string
}

// Loading is shown until the bookmark model is loaded.
func Loading() State {
	return State{Mode: ModeLoading}
}

// ForFolder shows the children of folder.
func ForFolder(folder model.BookmarkID) State {
	return State{Mode: ModeFolder, Folder: folder}
}

// ForSearch shows results for query.
func ForSearch(query string) State {
	return State{Mode: ModeSearching, Query: query}
}

// Equal compares the fields that matter for the mode.
func (s State) Equal(o State) bool {
	if s.Mode != o.Mode {
		return false
	}
	switch s.Mode {
	case ModeFolder:
		return s.Folder == o.Folder
	case ModeSearching:
		return s.Query == o.Query
	}
	return true
}

// URL encodes the state, e.g. "bmark://folder/normal:4" or
// "bmark://search?q=go". Loading has no URL.
func (s State) URL() string {
	switch s.Mode {
	case ModeFolder:
		return Scheme + "://folder/" + s.Folder.String()
	case ModeSearching:
		return Scheme + "://search?q=" + url.QueryEscape(s.Query)
	}
	return ""
}

func (s State) String() string {
	if s.Mode == ModeLoading {
		return "loading"
	}
	return s.URL()
}

// FolderChecker answers whether an id is an existing folder.
type FolderChecker interface {
	GetBookmarkByID(id model.BookmarkID) (model.BookmarkItem, bool)
}

// FromURL decodes a state URL. Anything unreadable, or a folder that
// no longer exists, yields ForFolder(fallback).
func FromURL(raw string, bookmarks FolderChecker, fallback model.BookmarkID) State {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != Scheme {
		return ForFolder(fallback)
	}

	switch u.Host {
	case "folder":
		id, err := model.ParseBookmarkID(strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return ForFolder(fallback)
		}
		item, ok := bookmarks.GetBookmarkByID(id)
		if !ok || !item.IsFolder {
			return ForFolder(fallback)
		}
		return ForFolder(id)
	case "search":
		return ForSearch(u.Query().Get("q"))
	}
	return ForFolder(fallback)
}
