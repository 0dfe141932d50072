package model

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ShoppingSpecifics is the product data attached to a shopping page.
// Prices are in micros of the currency unit.
type ShoppingSpecifics struct {
	ProductClusterID uint64 `json:"productClusterId"`
	OfferID          uint64 `json:"offerId"`
	Title            string `json:"title"`
	ImageURL         string `json:"imageUrl,omitempty"`
	CurrencyCode     string `json:"currencyCode"`
	CurrentPrice     int64  `json:"currentPrice"`
	PreviousPrice    int64  `json:"previousPrice,omitempty"`
	IsPriceTracked   bool   `json:"isPriceTracked"`
}

// PowerBookmarkMeta is structured metadata attached to a bookmark.
type PowerBookmarkMeta struct {
	LeadImageURL string             `json:"leadImageUrl,omitempty"`
	Shopping     *ShoppingSpecifics `json:"shopping,omitempty"`
}

// HasShopping reports whether the meta carries product data.
func (m *PowerBookmarkMeta) HasShopping() bool {
	return m != nil && m.Shopping != nil && m.Shopping.ProductClusterID != 0
}

// IsPriceTracked reports whether price tracking is on.
func (m *PowerBookmarkMeta) IsPriceTracked() bool {
	return m.HasShopping() && m.Shopping.IsPriceTracked
}

// PriceDropped reports whether the current price is below the previous one.
func (m *PowerBookmarkMeta) PriceDropped() bool {
	if !m.HasShopping() {
		return false
	}
	s := m.Shopping
	return s.PreviousPrice > 0 && s.CurrentPrice < s.PreviousPrice
}

// Clone returns a deep copy.
func (m *PowerBookmarkMeta) Clone() *PowerBookmarkMeta {
	if m == nil {
		return nil
	}
	c := *m
	if m.Shopping != nil {
		s := *m.Shopping
		c.Shopping = &s
	}
	return &c
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders micros with the currency symbol and the
// currency's standard number of decimals, e.g. "$12.99" or "¥1,500".
// Unknown codes are written out in front of the amount.
func FormatPrice(micros int64, code string) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	value := float64(micros) / 1e6

	unit, err := currency.ParseISO(code)
	if err != nil || unit == (currency.Unit{}) {
		amount := pricePrinter.Sprint(number.Decimal(value, number.Scale(2)))
		if code == "" {
			return sign + amount
		}
		return sign + code + " " + amount
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := pricePrinter.Sprint(currency.Symbol(unit))
	amount := pricePrinter.Sprint(number.Decimal(value, number.Scale(scale)))
	if r, _ := utf8.DecodeLastRuneInString(symbol); unicode.IsLetter(r) {
		symbol += " "
	}
	return sign + symbol + amount
}
