package model

import (
	"net/url"
	"strings"
	"time"
)

// BookmarkItem is a read-only copy of a node handed to the UI.
type BookmarkItem struct {
	ID             BookmarkID `json:"id"`
	GUID           string     `json:"guid"`
	Title          string     `json:"title"`
	URL            string     `json:"url,omitempty"`
	ParentID       BookmarkID `json:"parentId"` // zero for the root
	IsFolder       bool       `json:"isFolder"`
	IsEditable     bool       `json:"isEditable"`
	IsManaged      bool       `json:"isManaged"`
	IsPermanent    bool       `json:"isPermanent"`
	DateAdded      time.Time  `json:"dateAdded"`
	DateLastOpened *time.Time `json:"dateLastOpened,omitempty"` // nil = never opened
	Read           bool       `json:"read,omitempty"`
	ChildCount     int        `json:"childCount,omitempty"`
}

// IsReadingListItem reports whether the item is an entry of the reading list.
func (b BookmarkItem) IsReadingListItem() bool {
	return b.ID.Type == TypeReadingList && !b.IsFolder
}

// IsMovable reports whether the item may be dragged or moved elsewhere.
func (b BookmarkItem) IsMovable() bool {
	return b.IsEditable && !b.IsPermanent && !b.IsManaged
}

// DisplayURL strips the scheme, "www." and a trailing slash.
func (b BookmarkItem) DisplayURL() string {
	if b.URL == "" {
		return ""
	}
	u, err := url.Parse(b.URL)
	if err != nil || u.Host == "" {
		return b.URL
	}
	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimSuffix(u.EscapedPath(), "/")
	return host + path
}

// Host returns the URL host, or "" for folders and unparsable URLs.
func (b BookmarkItem) Host() string {
	u, err := url.Parse(b.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// LastUsed returns the last opened time, falling back to DateAdded.
func (b BookmarkItem) LastUsed() time.Time {
	if b.DateLastOpened != nil {
		return *b.DateLastOpened
	}
	return b.DateAdded
}
