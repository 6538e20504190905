package postgres

import (
	"fmt"

	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/postgres/migrations"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplyMigrations applies the embedded schema through a database/sql view of
// the pool.
func (s *Store) ApplyMigrations() error {
	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(s.pool), &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("postgres: migration driver: %w", err)
	}
	return store.Migrate(migrations.Migrations, "postgres", driver)
}
