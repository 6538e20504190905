package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are reached through methods so a Tx-scoped
// Store can hand out repos bound to the transaction.
type Store interface {
	Users() Users
	Products() Products

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. It commits when fn returns nil
	// and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Emails are stored lower-cased.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser writes name, role and updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error

	// DeleteUser cascades to the user's products (per schema).
	DeleteUser(ctx context.Context, id string) error

	// ListNonAdminUsers returns every USER, newest first, with product refs.
	ListNonAdminUsers(ctx context.Context) ([]domain.UserWithProducts, error)
}

type Products interface {
	// CreateProduct returns ErrNotFound when the owner does not exist.
	CreateProduct(ctx context.Context, p domain.Product) error

	GetProductByID(ctx context.Context, id string) (domain.ProductWithOwner, error)

	// ListProducts returns all products newest first.
	ListProducts(ctx context.Context) ([]domain.ProductWithOwner, error)

	// ListProductsByOwner returns one owner's products newest first.
	ListProductsByOwner(ctx context.Context, ownerID string) ([]domain.ProductWithOwner, error)

	// UpdateProduct writes title, content, price and updated_at.
	UpdateProduct(ctx context.Context, p domain.Product) error

	DeleteProduct(ctx context.Context, id string) error
}
