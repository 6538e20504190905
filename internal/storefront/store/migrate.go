package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate brings the schema behind driver up to the newest migration in fsys.
// The driver is left open; it shares the store's connection.
func Migrate(fsys fs.FS, driverName string, driver database.Driver) error {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return fmt.Errorf("%s: open migrations: %w", driverName, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("%s: init migrations: %w", driverName, err)
	}

	err = m.Up()
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.As(err, new(migrate.ErrDirty)):
		return fmt.Errorf("%s: schema left dirty by a failed migration, repair it and force the version: %w", driverName, err)
	default:
		return fmt.Errorf("%s: apply migrations: %w", driverName, err)
	}
}
