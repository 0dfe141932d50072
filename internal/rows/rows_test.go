package rows

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/images"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
)

func bookmark(id int64, title, url string) model.BookmarkItem {
	return model.BookmarkItem{ID: model.NewID(id, model.TypeNormal), Title: title, URL: url, IsEditable: true}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name string
		item model.BookmarkItem
		want string
	}{
		{"bookmark", bookmark(1, "Go", "https://www.go.dev/doc"), "go.dev"},
		{"empty folder", model.BookmarkItem{IsFolder: true}, "No bookmarks"},
		{"one child", model.BookmarkItem{IsFolder: true, ChildCount: 1}, "1 bookmark"},
		{"many children", model.BookmarkItem{IsFolder: true, ChildCount: 12}, "12 bookmarks"},
		{"no host", bookmark(2, "x", "about:blank"), "about:blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Description(tt.item), tt.want)
		})
	}
}

func TestBuild_Bookmark(t *testing.T) {
	it := bookmark(7, "", "https://go.dev/doc/")
	e := model.NewItemEntry(it, nil)

	r := Build(e, Context{
		DragEnabled: true,
		Selected:    func(id model.BookmarkID) bool { return id == it.ID },
	})
	assert.Equal(t, r.Title, "go.dev/doc")
	assert.Equal(t, r.Description, "go.dev")
	assert.Equal(t, r.Icon, IconFavicon)
	assert.Assert(t, r.Selected && r.Selectable && r.DragHandle)
	assert.Assert(t, r.Price == nil)
}

func TestBuild_PermanentFolder(t *testing.T) {
	it := model.BookmarkItem{
		ID: model.NewID(4, model.TypeNormal), Title: "Mobile bookmarks",
		IsFolder: true, IsEditable: true, IsPermanent: true, ChildCount: 3,
	}
	r := Build(model.NewItemEntry(it, nil), Context{DragEnabled: true})
	assert.Equal(t, r.Kind, model.ViewFolder)
	assert.Equal(t, r.Icon, IconFolder)
	assert.Equal(t, r.Description, "3 bookmarks")
	assert.Assert(t, !r.Selectable && !r.DragHandle)
}

func TestBuild_ReadingListUnread(t *testing.T) {
	it := model.BookmarkItem{ID: model.NewID(9, model.TypeReadingList), Title: "Later", URL: "https://a.example"}
	r := Build(model.NewItemEntry(it, nil), Context{})
	assert.Assert(t, r.Unread)

	it.Read = true
	r = Build(model.NewItemEntry(it, nil), Context{})
	assert.Assert(t, !r.Unread)
}

func TestBuild_VisualImages(t *testing.T) {
	it := bookmark(3, "Go", "https://go.dev")
	ctx := Context{
		Display: prefs.DisplayVisual,
		Images: func(model.BookmarkID) []images.Image {
			return []images.Image{{URL: "https://go.dev/hero.png"}}
		},
	}
	r := Build(model.NewItemEntry(it, nil), ctx)
	assert.Equal(t, r.Icon, IconImage)
	assert.DeepEqual(t, r.ImageURLs, []string{"https://go.dev/hero.png"})

	ctx.Display = prefs.DisplayCompact
	r = Build(model.NewItemEntry(it, nil), ctx)
	assert.Equal(t, r.Icon, IconFavicon)
	assert.Assert(t, r.ImageURLs == nil)
}

func TestBuild_ShoppingPrice(t *testing.T) {
	meta := &model.PowerBookmarkMeta{Shopping: &model.ShoppingSpecifics{
		ProductClusterID: 1, CurrencyCode: "EUR",
		CurrentPrice: 8_500_000, PreviousPrice: 10_000_000, IsPriceTracked: true,
	}}
	r := Build(model.NewItemEntry(bookmark(5, "Shoe", "https://shop.example"), meta), Context{})
	assert.Equal(t, r.Kind, model.ViewShoppingPowerBookmark)
	assert.DeepEqual(t, r.Price, &PriceChip{Current: "€8.50", Previous: "€10.00", Tracked: true})

	meta.Shopping.PreviousPrice = 0
	r = Build(model.NewItemEntry(bookmark(5, "Shoe", "https://shop.example"), meta), Context{})
	assert.DeepEqual(t, r.Price, &PriceChip{Current: "€8.50", Tracked: true})
}

func TestBuild_Header(t *testing.T) {
	r := Build(model.NewSectionHeader("Unread"), Context{})
	assert.Equal(t, r.Kind, model.ViewSectionHeader)
	assert.Equal(t, r.Title, "Unread")
	assert.Assert(t, !r.ID.Valid())
}
