package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

func TestParseBookmarkID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.BookmarkID
		wantErr bool
	}{
		{"normal with prefix", "normal:12", model.NewID(12, model.TypeNormal), false},
		{"reading list", "reading:5", model.NewID(5, model.TypeReadingList), false},
		{"partner", "partner:6", model.NewID(6, model.TypePartner), false},
		{"bare number", "42", model.NewID(42, model.TypeNormal), false},
		{"zero id", "normal:0", model.BookmarkID{}, true},
		{"negative id", "-3", model.BookmarkID{}, true},
		{"unknown type", "weird:3", model.BookmarkID{}, true},
		{"garbage", "abc", model.BookmarkID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseBookmarkID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidID) {
					t.Fatalf("expected ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if roundtrip, _ := model.ParseBookmarkID(got.String()); roundtrip != got {
				t.Errorf("String() did not parse back: %q", got.String())
			}
		})
	}
}

func TestBookmarkItem_DisplayURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/", "example.com"},
		{"https://go.dev/doc/effective_go", "go.dev/doc/effective_go"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, tt := range tests {
		item := model.BookmarkItem{URL: tt.url}
		if got := item.DisplayURL(); got != tt.want {
			t.Errorf("DisplayURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestBookmarkItem_LastUsed(t *testing.T) {
	added := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	opened := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	item := model.BookmarkItem{DateAdded: added}
	if !item.LastUsed().Equal(added) {
		t.Error("never opened item should fall back to DateAdded")
	}
	item.DateLastOpened = &opened
	if !item.LastUsed().Equal(opened) {
		t.Error("expected DateLastOpened")
	}
}

func TestBookmarkItem_IsMovable(t *testing.T) {
	if (model.BookmarkItem{IsEditable: true, IsPermanent: true}).IsMovable() {
		t.Error("permanent folders must not be movable")
	}
	if (model.BookmarkItem{IsEditable: true, IsManaged: true}).IsMovable() {
		t.Error("managed nodes must not be movable")
	}
	if !(model.BookmarkItem{IsEditable: true}).IsMovable() {
		t.Error("plain editable bookmark should be movable")
	}
}

func TestPowerBookmarkMeta_Price(t *testing.T) {
	var nilMeta *model.PowerBookmarkMeta
	if nilMeta.HasShopping() || nilMeta.PriceDropped() {
		t.Error("nil meta has no shopping data")
	}

	meta := &model.PowerBookmarkMeta{Shopping: &model.ShoppingSpecifics{
		ProductClusterID: 7,
		CurrencyCode:     "USD",
		CurrentPrice:     9_990_000,
		PreviousPrice:    12_990_000,
	}}
	if !meta.PriceDropped() {
		t.Error("expected price drop")
	}

	clone := meta.Clone()
	clone.Shopping.IsPriceTracked = true
	if meta.Shopping.IsPriceTracked {
		t.Error("Clone must not share shopping specifics")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		micros   int64
		currency string
		want     string
	}{
		{12_990_000, "USD", "$12.99"},
		{5_000_000, "EUR", "€5.00"},
		{1_234_567, "CHF", "CHF 1.23"},
		{1_500_000_000, "JPY", "¥1,500"},
		{1_234_500_000, "GBP", "£1,234.50"},
		{-2_500_000, "USD", "-$2.50"},
		{990_000, "NOPE", "NOPE 0.99"},
	}
	for _, tt := range tests {
		if got := model.FormatPrice(tt.micros, tt.currency); got != tt.want {
			t.Errorf("FormatPrice(%d, %s) = %q, want %q", tt.micros, tt.currency, got, tt.want)
		}
	}
}

func TestNewItemEntry_ViewType(t *testing.T) {
	folder := model.NewItemEntry(model.BookmarkItem{IsFolder: true}, nil)
	if folder.ViewType != model.ViewFolder {
		t.Errorf("expected folder view, got %v", folder.ViewType)
	}

	shopping := model.NewItemEntry(model.BookmarkItem{URL: "https://shop.example"},
		&model.PowerBookmarkMeta{Shopping: &model.ShoppingSpecifics{ProductClusterID: 1}})
	if shopping.ViewType != model.ViewShoppingPowerBookmark {
		t.Errorf("expected shopping view, got %v", shopping.ViewType)
	}

	plain := model.NewItemEntry(model.BookmarkItem{URL: "https://example.com"}, &model.PowerBookmarkMeta{})
	if plain.ViewType != model.ViewBookmark {
		t.Errorf("expected bookmark view, got %v", plain.ViewType)
	}

	if model.NewDivider().HasItem() {
		t.Error("divider should carry no item")
	}
}

func TestGUID(t *testing.T) {
	a, b := model.GenerateGUID(), model.GenerateGUID()
	if a == b {
		t.Error("GUIDs should differ")
	}
	if !model.ValidGUID(a) || model.ValidGUID("nope") {
		t.Error("ValidGUID mismatch")
	}
}
