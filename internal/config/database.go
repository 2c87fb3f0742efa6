package config

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/Kerhoff/wishlist/migrations"
)

// Database holds database connection and configuration
type Database struct {
	*sql.DB
	Driver string
	logger *logrus.Logger
}

// sqlitePragmas are applied to the single embedded-store connection.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// NewDatabase creates a new database connection for the given driver
func NewDatabase(driver, databaseURL string, logger *logrus.Logger) (*Database, error) {
	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case DriverSQLite:
		// One connection keeps the pragmas in effect and serializes writers.
		db.SetMaxOpenConns(1)
		for _, p := range sqlitePragmas {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", p, err)
			}
		}
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("driver", driver).Info("Database connection established successfully")

	return &Database{
		DB:     db,
		Driver: driver,
		logger: logger,
	}, nil
}

// Migrate applies the embedded schema for the connection's driver
func (d *Database) Migrate() error {
	var (
		driver database.Driver
		err    error
	)
	switch d.Driver {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(d.DB, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepg.WithInstance(d.DB, &migratepg.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", d.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, d.Driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, d.Driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
