package postgres

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// postgres driver and file source for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrations is relative to the working directory of the binary.
const DefaultMigrations = "file://migrations"

// Migrate applies every pending up migration from source. Already up to date
// is not an error.
func Migrate(source, dsn string) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
