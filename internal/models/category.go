package models

// CategoryCustom is the picker value that asks for a free-form category
// name and a user-supplied image instead of a bundled asset.
const CategoryCustom = "custom"

// DefaultCategory is preselected on the add form.
const DefaultCategory = "electronics"

// Category is one entry of the category picker.
type Category struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Asset string `json:"asset,omitempty"`
}

// IsCustom reports whether the category is the custom placeholder.
func (c Category) IsCustom() bool {
	return c.Value == CategoryCustom
}

// Categories lists the picker entries in display order. Sections for these
// categories are always rendered before any custom category.
var Categories = []Category{
	{Label: "Electronics", Value: "electronics", Asset: "electronics.svg"},
	{Label: "Crafts", Value: "crafts", Asset: "crafts.svg"},
	{Label: "Gifts", Value: "gifts", Asset: "gifts.svg"},
	{Label: "Books", Value: "books", Asset: "books.svg"},
	{Label: "Clothing", Value: "clothing", Asset: "clothing.svg"},
	{Label: "Custom", Value: CategoryCustom},
}

// LookupCategory finds a picker entry by value.
func LookupCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}

// IsPredefined reports whether value names a category with a bundled asset.
func IsPredefined(value string) bool {
	c, ok := LookupCategory(value)
	return ok && !c.IsCustom()
}
