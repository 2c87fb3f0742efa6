package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
)

const itemColumns = `id, title, description, price, category, image, url`

type itemRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewItemRepository creates a new wishlist item repository
func NewItemRepository(db *sql.DB, dialect Dialect) repository.ItemRepository {
	return &itemRepository{db: db, dialect: dialect}
}

func (r *itemRepository) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	var (
		query string
		args  []any
	)

	if item.ID == 0 {
		query = `
			INSERT INTO wishlist (title, description, price, category, image, url)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`
		args = []any{item.Title, item.Description, item.Price, item.Category, item.Image, item.URL}
	} else {
		query = `
			INSERT INTO wishlist (id, title, description, price, category, image, url)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`
		args = []any{item.ID, item.Title, item.Description, item.Price, item.Category, item.Image, item.URL}
	}

	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}

	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.WishlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist WHERE id = ?`

	item, err := scanItem(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("wishlist item with ID %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wishlist item by ID: %w", err)
	}

	return item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]*models.WishlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *itemRepository) Update(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	query := `
		UPDATE wishlist
		SET title = ?, description = ?, price = ?, category = ?, image = ?, url = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		item.Title,
		item.Description,
		item.Price,
		item.Category,
		item.Image,
		item.URL,
		item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update wishlist item: %w", err)
	}

	if err := expectAffected(result, item.ID); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM wishlist WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	return expectAffected(result, id)
}

func (r *itemRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wishlist`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.WishlistItem, error) {
	item := &models.WishlistItem{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.Image,
		&item.URL,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func expectAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("wishlist item with ID %d: %w", id, repository.ErrNotFound)
	}

	return nil
}
