package service

import (
	"testing"

	"github.com/Kerhoff/wishlist/internal/models"
)

func TestGroupByCategory(t *testing.T) {
	items := []*models.WishlistItem{
		{ID: 9, Title: "Sneakers", Category: "Shoes"},
		{ID: 8, Title: "Novel", Category: "books"},
		{ID: 7, Title: "Laptop", Category: "electronics"},
		{ID: 6, Title: "Plant", Category: "Garden"},
		{ID: 5, Title: "Boots", Category: "Shoes"},
		{ID: 4, Title: "Phone", Category: "electronics"},
	}

	sections := GroupByCategory(items)

	want := []struct {
		title string
		ids   []int64
	}{
		{"Electronics", []int64{7, 4}},
		{"Books", []int64{8}},
		{"Shoes", []int64{9, 5}},
		{"Garden", []int64{6}},
	}

	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, w := range want {
		s := sections[i]
		if s.Title != w.title {
			t.Errorf("sections[%d].Title = %q, want %q", i, s.Title, w.title)
			continue
		}
		if len(s.Items) != len(w.ids) {
			t.Errorf("%s: %d items, want %d", s.Title, len(s.Items), len(w.ids))
			continue
		}
		for j, id := range w.ids {
			if s.Items[j].ID != id {
				t.Errorf("%s[%d].ID = %d, want %d", s.Title, j, s.Items[j].ID, id)
			}
		}
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	if got := GroupByCategory(nil); len(got) != 0 {
		t.Errorf("GroupByCategory(nil) = %v", got)
	}
}

func TestGroupByCategoryPickerCustomAndBlank(t *testing.T) {
	items := []*models.WishlistItem{
		{ID: 3, Category: ""},
		{ID: 2, Category: "custom"},
		{ID: 1, Category: "clothing"},
	}

	sections := GroupByCategory(items)
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}

	want := []string{"Clothing", "Custom", "Other"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %q, want %q", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}
