package model

// ViewType is the kind of row a list entry renders as.
type ViewType int

const (
	ViewFolder ViewType = iota
	ViewBookmark
	ViewSectionHeader
	ViewDivider
	ViewShoppingPowerBookmark
	ViewShoppingFilter
	ViewEmpty
)

func (v ViewType) String() string {
	switch v {
	case ViewFolder:
		return "folder"
	case ViewBookmark:
		return "bookmark"
	case ViewSectionHeader:
		return "header"
	case ViewDivider:
		return "divider"
	case ViewShoppingPowerBookmark:
		return "shopping"
	case ViewShoppingFilter:
		return "shopping-filter"
	case ViewEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// BookmarkListEntry is one row in the bookmark list.
type BookmarkListEntry struct {
	ViewType    ViewType
	Item        *BookmarkItem
	Meta        *PowerBookmarkMeta
	HeaderTitle string
}

// NewItemEntry picks the view type from the item and its meta.
func NewItemEntry(item BookmarkItem, meta *PowerBookmarkMeta) BookmarkListEntry {
	vt := ViewBookmark
	switch {
	case item.IsFolder:
		vt = ViewFolder
	case meta.HasShopping():
		vt = ViewShoppingPowerBookmark
	}
	return BookmarkListEntry{ViewType: vt, Item: &item, Meta: meta}
}

// NewSectionHeader creates a header row.
func NewSectionHeader(title string) BookmarkListEntry {
	return BookmarkListEntry{ViewType: ViewSectionHeader, HeaderTitle: title}
}

// NewDivider creates a divider row.
func NewDivider() BookmarkListEntry {
	return BookmarkListEntry{ViewType: ViewDivider}
}

// NewShoppingFilter creates the "tracked products" filter row.
func NewShoppingFilter() BookmarkListEntry {
	return BookmarkListEntry{ViewType: ViewShoppingFilter, HeaderTitle: "Tracked products"}
}

// NewEmptyEntry creates the placeholder row for an empty list.
func NewEmptyEntry(text string) BookmarkListEntry {
	return BookmarkListEntry{ViewType: ViewEmpty, HeaderTitle: text}
}

// HasItem reports whether the entry wraps a bookmark node.
func (e BookmarkListEntry) HasItem() bool {
	return e.Item != nil
}

// ID returns the wrapped item's id, or the zero id.
func (e BookmarkListEntry) ID() BookmarkID {
	if e.Item == nil {
		return BookmarkID{}
	}
	return e.Item.ID
}
