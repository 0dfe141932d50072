// Package rows turns list entries into display-ready row models.
package rows

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/bmark/internal/images"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
)

// Icon is the start icon of a row.
type Icon int

const (
	IconNone Icon = iota
	IconFolder
	IconFavicon
	IconImage
)

// PriceChip is the price accessory of a shopping row.
type PriceChip struct {
	Current  string
	Previous string // set only when the price dropped, rendered struck through
	Tracked  bool
}

// Row is everything a renderer needs for one entry.
type Row struct {
	Kind        model.ViewType
	ID          model.BookmarkID
	Title       string
	Description string

	Icon      Icon
	ImageURLs []string

	Selectable bool
	Selected   bool
	DragHandle bool
	Unread     bool
	Price      *PriceChip
}

// Context carries the list-wide inputs of Build.
type Context struct {
	Display     prefs.DisplayMode
	DragEnabled bool
	Selected    func(model.BookmarkID) bool
	Images      func(model.BookmarkID) []images.Image
}

// Build creates the row model of e.
func Build(e model.BookmarkListEntry, ctx Context) Row {
	r := Row{Kind: e.ViewType}
	if !e.HasItem() {
		r.Title = e.HeaderTitle
		return r
	}

	it := *e.Item
	r.ID = it.ID
	r.Title = it.Title
	if r.Title == "" {
		r.Title = it.DisplayURL()
	}
	r.Description = Description(it)
	r.Selectable = it.IsEditable && !it.IsPermanent
	if ctx.Selected != nil {
		r.Selected = ctx.Selected(it.ID)
	}
	r.DragHandle = ctx.DragEnabled && it.IsMovable()
	r.Unread = it.IsReadingListItem() && !it.Read

	r.Icon = IconFavicon
	if it.IsFolder {
		r.Icon = IconFolder
	}
	if ctx.Display == prefs.DisplayVisual && ctx.Images != nil {
		for _, img := range ctx.Images(it.ID) {
			if img.URL == "" {
				continue
			}
			r.ImageURLs = append(r.ImageURLs, img.URL)
			if !img.IsFavicon {
				r.Icon = IconImage
			}
		}
	}

	if e.ViewType == model.ViewShoppingPowerBookmark {
		r.Price = Price(e.Meta)
	}
	return r
}

// Description is the secondary line: the host of a bookmark or the
// size of a folder.
func Description(it model.BookmarkItem) string {
	if it.IsFolder {
		switch it.ChildCount {
		case 0:
			return "No bookmarks"
		case 1:
			return "1 bookmark"
		}
		return fmt.Sprintf("%d bookmarks", it.ChildCount)
	}
	if h := it.Host(); h != "" {
		return strings.TrimPrefix(h, "www.")
	}
	return it.URL
}

// Price builds the price chip of a shopping bookmark, nil without
// product data.
func Price(meta *model.PowerBookmarkMeta) *PriceChip {
	if !meta.HasShopping() {
		return nil
	}
	s := meta.Shopping
	chip := &PriceChip{
		Current: model.FormatPrice(s.CurrentPrice, s.CurrencyCode),
		Tracked: s.IsPriceTracked,
	}
	if meta.PriceDropped() {
		chip.Previous = model.FormatPrice(s.PreviousPrice, s.CurrencyCode)
	}
	return chip
}
