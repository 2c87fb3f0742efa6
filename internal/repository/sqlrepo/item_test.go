package sqlrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
	"github.com/Kerhoff/wishlist/internal/repository/sqlrepo"
	"github.com/Kerhoff/wishlist/internal/testutil"
)

func TestRebind(t *testing.T) {
	q := `UPDATE wishlist SET title = ?, url = ? WHERE id = ?`

	if got := sqlrepo.DialectSQLite.Rebind(q); got != q {
		t.Errorf("sqlite rebind changed query: %q", got)
	}

	want := `UPDATE wishlist SET title = $1, url = $2 WHERE id = $3`
	if got := sqlrepo.DialectPostgres.Rebind(q); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestCreateWithExplicitID(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	item, err := repo.Create(ctx, &models.WishlistItem{
		ID:       1700000000000,
		Title:    "Laptop",
		Price:    "599.99",
		Category: "electronics",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if item.ID != 1700000000000 {
		t.Errorf("ID = %d", item.ID)
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Laptop" || got.Price != "599.99" || got.Category != "electronics" {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestCreateAutoIncrement(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	first, err := repo.Create(ctx, &models.WishlistItem{Title: "One"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Create(ctx, &models.WishlistItem{Title: "Two"})
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == 0 || second.ID <= first.ID {
		t.Errorf("ids not assigned in order: %d, %d", first.ID, second.ID)
	}
}

func TestListOrdersByIDDescending(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	for _, id := range []int64{20, 10, 30} {
		if _, err := repo.Create(ctx, &models.WishlistItem{ID: id, Title: "item"}); err != nil {
			t.Fatal(err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
	for i, want := range []int64{30, 20, 10} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v", n, err)
	}
}

func TestUpdateInPlace(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	item, err := repo.Create(ctx, &models.WishlistItem{ID: 5, Title: "Old", URL: "https://a.example"})
	if err != nil {
		t.Fatal(err)
	}

	item.Title = "New"
	item.URL = ""
	item.Category = "books"
	if _, err := repo.Update(ctx, item); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.URL != "" || got.Category != "books" {
		t.Errorf("after update = %+v", got)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Update(ctx, &models.WishlistItem{ID: 99, Title: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewItemRepository(t)

	if _, err := repo.Create(ctx, &models.WishlistItem{ID: 1, Title: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("Count() = %d after delete", n)
	}
}
