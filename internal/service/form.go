package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/Kerhoff/wishlist/internal/models"
)

// ErrInvalidItem wraps every validation failure returned by Add and Update.
var ErrInvalidItem = errors.New("invalid wishlist item")

const (
	msgTitleRequired  = "Please enter a title"
	msgInvalidPrice   = "Please enter a valid price in USD format (e.g., 10.00)"
	msgInvalidURL     = "Please enter a valid URL (e.g., https://example.com)"
	msgCustomRequired = "Please enter a custom category name and image URL"
	msgCustomReserved = "Please choose a custom category name that differs from the predefined categories"
)

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return priceRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("custom_name", validateCustomName); err != nil {
		panic(err)
	}
	return v
}

// ItemForm is the user input for adding or editing a wishlist item.
type ItemForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"omitempty,price"`
	URL         string `json:"url" validate:"omitempty,http_url"`
	// Category is a predefined value, "custom", or the name of an existing
	// custom category.
	Category       string `json:"category"`
	CustomCategory string `json:"custom_category" validate:"required_if=Category custom,custom_name"`
	CustomImage    string `json:"custom_image" validate:"required_if=Category custom"`
}

// FieldError is a single problem with one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Validate trims every field, applies the category default, and reports
// all problems at once.
func (f *ItemForm) Validate() error {
	f.normalize()

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var result *multierror.Error
	seen := make(map[string]bool)
	for _, fe := range verrs {
		msg := messageFor(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		result = multierror.Append(result, &FieldError{Field: fe.Field(), Message: msg})
	}
	result.ErrorFormat = joinMessages

	return result.ErrorOrNil()
}

func (f *ItemForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = strings.TrimSpace(f.Price)
	f.URL = strings.TrimSpace(f.URL)
	f.Category = strings.TrimSpace(f.Category)
	f.CustomCategory = strings.TrimSpace(f.CustomCategory)
	f.CustomImage = strings.TrimSpace(f.CustomImage)
	if f.Category == "" {
		f.Category = models.DefaultCategory
	}
}

// validateCustomName rejects a custom category that collides with a picker
// entry, which would file the item under a bundled category or make it
// look like the "custom" placeholder.
func validateCustomName(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.FieldByName("Category").String() != models.CategoryCustom {
		return true
	}
	name := fl.Field().String()
	for _, c := range models.Categories {
		if strings.EqualFold(name, c.Value) || strings.EqualFold(name, c.Label) {
			return false
		}
	}
	return true
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "custom_name" {
		return msgCustomReserved
	}
	switch fe.Field() {
	case "title":
		return msgTitleRequired
	case "price":
		return msgInvalidPrice
	case "url":
		return msgInvalidURL
	case "custom_category", "custom_image":
		return msgCustomRequired
	}
	return fe.Error()
}

func joinMessages(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidationMessages flattens a validation error into user-facing messages.
func ValidationMessages(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}

// FormatPrice renders a validated price with exactly two decimals, so
// "10" becomes "10.00" and "007.5" becomes "7.50". An empty price stays
// empty.
func FormatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	whole, frac, _ := strings.Cut(raw, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}
	return whole + "." + frac
}
