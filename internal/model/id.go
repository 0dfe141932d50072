package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BookmarkType tells which backing store a node belongs to.
type BookmarkType int

const (
	TypeNormal BookmarkType = iota
	TypePartner
	TypeReadingList
)

var typeNames = map[BookmarkType]string{
	TypeNormal:      "normal",
	TypePartner:     "partner",
	TypeReadingList: "reading",
}

func (t BookmarkType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseBookmarkType is the inverse of BookmarkType.String.
func ParseBookmarkType(s string) (BookmarkType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown bookmark type %q", s)
}

// BookmarkID identifies a node. The zero value is invalid.
type BookmarkID struct {
	ID   int64        `json:"id"`
	Type BookmarkType `json:"type"`
}

var ErrInvalidID = errors.New("invalid bookmark id")

// NewID builds a BookmarkID.
func NewID(id int64, t BookmarkType) BookmarkID {
	return BookmarkID{ID: id, Type: t}
}

// Valid reports whether the id can reference a node.
func (b BookmarkID) Valid() bool {
	return b.ID > 0
}

// String returns "<type>:<id>", e.g. "normal:12".
func (b BookmarkID) String() string {
	return b.Type.String() + ":" + strconv.FormatInt(b.ID, 10)
}

// ParseBookmarkID parses the String form. A bare number is read as a
// normal bookmark id.
func ParseBookmarkID(s string) (BookmarkID, error) {
	typ := TypeNormal
	num := s
	if before, after, ok := strings.Cut(s, ":"); ok {
		t, err := ParseBookmarkType(before)
		if err != nil {
			return BookmarkID{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		typ = t
		num = after
	}

	id, err := strconv.ParseInt(num, 10, 64)
	if err != nil || id <= 0 {
		return BookmarkID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return BookmarkID{ID: id, Type: typ}, nil
}
