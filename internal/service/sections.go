package service

import "github.com/Kerhoff/wishlist/internal/models"

// uncategorizedTitle heads the section for items stored without a category.
const uncategorizedTitle = "Other"

// GroupByCategory splits items into sections. Picker categories come first
// in picker order, followed by custom categories in the order they first
// appear in items. Empty sections are omitted.
func GroupByCategory(items []*models.WishlistItem) []models.Section {
	sections := make([]models.Section, 0, len(models.Categories))

	for _, c := range models.Categories {
		var data []*models.WishlistItem
		for _, item := range items {
			if item.Category == c.Value {
				data = append(data, item)
			}
		}
		if len(data) > 0 {
			sections = append(sections, models.Section{Title: c.Label, Items: data})
		}
	}

	var order []string
	custom := make(map[string][]*models.WishlistItem)
	for _, item := range items {
		if _, ok := models.LookupCategory(item.Category); ok {
			continue
		}
		if _, seen := custom[item.Category]; !seen {
			order = append(order, item.Category)
		}
		custom[item.Category] = append(custom[item.Category], item)
	}

	for _, name := range order {
		title := name
		if title == "" {
			title = uncategorizedTitle
		}
		sections = append(sections, models.Section{Title: title, Items: custom[name]})
	}

	return sections
}
