package models

import "strings"

// WishlistItem is a single saved product with display metadata and an
// optional external link.
type WishlistItem struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Price       string `json:"price" db:"price"`
	Category    string `json:"category" db:"category"`
	Image       string `json:"image" db:"image"`
	URL         string `json:"url" db:"url"`
}

// HasURL reports whether the item links to a web page.
func (i *WishlistItem) HasURL() bool {
	return strings.TrimSpace(i.URL) != ""
}

// DisplayPrice returns the price prefixed with a dollar sign, or an empty
// string when no price was entered.
func (i *WishlistItem) DisplayPrice() string {
	if i.Price == "" {
		return ""
	}
	return "$" + i.Price
}

// CategoryLabel returns the label of a predefined category, or the raw
// category string for custom ones.
func (i *WishlistItem) CategoryLabel() string {
	if c, ok := LookupCategory(i.Category); ok {
		return c.Label
	}
	return i.Category
}

// Section is a titled group of items rendered together in a list.
type Section struct {
	Title string          `json:"title"`
	Items []*WishlistItem `json:"data"`
}
