package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/wishlist/internal/models"
)

// ErrNotFound is returned when no row matches the requested identifier.
var ErrNotFound = errors.New("wishlist item not found")

// ItemRepository defines the interface for wishlist item data operations
type ItemRepository interface {
	// Create inserts the item. A zero ID lets the database assign one.
	Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	GetByID(ctx context.Context, id int64) (*models.WishlistItem, error)
	// List returns every item, newest identifier first.
	List(ctx context.Context) ([]*models.WishlistItem, error)
	Update(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
