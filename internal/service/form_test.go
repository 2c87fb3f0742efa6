package service

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"10", "10.00"},
		{"10.5", "10.50"},
		{"599.99", "599.99"},
		{"007.5", "7.50"},
		{"0.1", "0.10"},
		{"0", "0.00"},
		{" 12 ", "12.00"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form ItemForm
		want []string
	}{
		{
			name: "minimal",
			form: ItemForm{Title: "Book"},
		},
		{
			name: "missing title",
			form: ItemForm{Title: "   "},
			want: []string{msgTitleRequired},
		},
		{
			name: "price with three decimals",
			form: ItemForm{Title: "x", Price: "1.999"},
			want: []string{msgInvalidPrice},
		},
		{
			name: "price with currency sign",
			form: ItemForm{Title: "x", Price: "$10"},
			want: []string{msgInvalidPrice},
		},
		{
			name: "negative price",
			form: ItemForm{Title: "x", Price: "-1"},
			want: []string{msgInvalidPrice},
		},
		{
			name: "relative url",
			form: ItemForm{Title: "x", URL: "example.com/item"},
			want: []string{msgInvalidURL},
		},
		{
			name: "javascript url",
			form: ItemForm{Title: "x", URL: "javascript:alert(1)"},
			want: []string{msgInvalidURL},
		},
		{
			name: "mailto url",
			form: ItemForm{Title: "x", URL: "mailto:a@b.c"},
			want: []string{msgInvalidURL},
		},
		{
			name: "plain http url",
			form: ItemForm{Title: "x", URL: "http://example.com/item?id=1"},
		},
		{
			name: "custom without name and image",
			form: ItemForm{Title: "x", Category: "custom"},
			want: []string{msgCustomRequired},
		},
		{
			name: "custom without image",
			form: ItemForm{Title: "x", Category: "custom", CustomCategory: "Shoes"},
			want: []string{msgCustomRequired},
		},
		{
			name: "custom complete",
			form: ItemForm{Title: "x", Category: "custom", CustomCategory: "Shoes", CustomImage: "https://img.example/shoe.png"},
		},
		{
			name: "custom named custom",
			form: ItemForm{Title: "x", Category: "custom", CustomCategory: "Custom", CustomImage: "https://img.example/c.png"},
			want: []string{msgCustomReserved},
		},
		{
			name: "custom named after a predefined category",
			form: ItemForm{Title: "x", Category: "custom", CustomCategory: "BOOKS", CustomImage: "https://img.example/b.png"},
			want: []string{msgCustomReserved},
		},
		{
			name: "everything wrong",
			form: ItemForm{Price: "abc", Category: "custom"},
			want: []string{msgTitleRequired, msgInvalidPrice, msgCustomRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			got := ValidationMessages(err)

			if len(got) != len(tt.want) {
				t.Fatalf("messages = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("messages[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	form := ItemForm{Title: "  Kindle ", Price: " 89.5 "}
	if err := form.Validate(); err != nil {
		t.Fatal(err)
	}
	if form.Title != "Kindle" || form.Price != "89.5" {
		t.Errorf("form not trimmed: %+v", form)
	}
	if form.Category != "electronics" {
		t.Errorf("Category = %q, want default electronics", form.Category)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	form := ItemForm{Price: "x"}
	err := form.Validate()

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v does not contain a FieldError", err)
	}
	if fe.Field != "title" {
		t.Errorf("first field = %q, want title", fe.Field)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("messages not joined: %q", err.Error())
	}
}
