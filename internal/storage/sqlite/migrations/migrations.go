// Package migrations holds the build cache database schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/bopbridge/internal/log"
)

//go:embed sql/*.sql
var files embed.FS

// Up migrates the database to the latest schema version. Already migrated
// databases are left untouched.
func Up(ctx context.Context, db *sql.DB, logger log.Logger) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warningf("Could not close migrations source: %s", err)
		}
	}()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debugf("Build cache schema is up to date")
	case err != nil:
		return fmt.Errorf("could not run migrations: %w", err)
	default:
		version, _, _ := m.Version()
		logger.Debugf("Build cache schema migrated to version %d", version)
	}

	return nil
}
