// Package testutil builds migrated SQLite databases and quiet loggers for
// package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Kerhoff/wishlist/internal/config"
	"github.com/Kerhoff/wishlist/internal/repository"
	"github.com/Kerhoff/wishlist/internal/repository/sqlrepo"
)

// Logger returns a logger that discards output and records entries.
func Logger(t testing.TB) (*logrus.Logger, *logtest.Hook) {
	t.Helper()
	l, hook := logtest.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return l, hook
}

// NewDatabase opens a fresh SQLite file under t.TempDir and applies the
// embedded migrations. The database is closed when the test ends.
func NewDatabase(t testing.TB) *config.Database {
	t.Helper()
	l, _ := Logger(t)

	db, err := config.NewDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "wishlist.db"), l)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate database: %v", err)
	}
	return db
}

// NewItemRepository returns a repository over a fresh database.
func NewItemRepository(t testing.TB) repository.ItemRepository {
	t.Helper()
	db := NewDatabase(t)
	return sqlrepo.NewItemRepository(db.DB, sqlrepo.DialectSQLite)
}
