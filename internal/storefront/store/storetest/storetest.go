// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run exercises a driver against the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("list users", func(t *testing.T) { testListUsers(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("cascade", func(t *testing.T) { testCascade(t, newStore(t)) })
	t.Run("transactions", func(t *testing.T) { testTx(t, newStore(t)) })
}

// NewUser builds a user created at the given time.
func NewUser(email string, role domain.Role, at time.Time) domain.User {
	return domain.User{
		ID:           idx.NewAt(at).String(),
		Name:         "user",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// NewProduct builds a product owned by ownerID created at the given time.
func NewProduct(ownerID, title string, at time.Time) domain.Product {
	return domain.Product{
		ID:        idx.NewAt(at).String(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   "content of " + title,
		Price:     9.5,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := NewUser("alice@example.com", domain.RoleUser, now)

	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleUser, got.Role)
	require.WithinDuration(t, now, got.CreatedAt, time.Millisecond)

	got, err = s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	dup := NewUser("alice@example.com", domain.RoleUser, now.Add(time.Second))
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	u.Name = "alice"
	u.Role = domain.RoleAdmin
	u.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, s.Users().UpdateUser(ctx, u))

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.WithinDuration(t, u.UpdatedAt, got.UpdatedAt, time.Millisecond)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().UpdateUser(ctx, domain.User{ID: "missing", Role: domain.RoleUser}), store.ErrNotFound)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "rehashed", now.Add(2*time.Minute)))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "rehashed", got.PasswordHash)
	require.Equal(t, "alice", got.Name)
	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x", now), store.ErrNotFound)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func testListUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := NewUser("older@example.com", domain.RoleUser, base)
	newer := NewUser("newer@example.com", domain.RoleUser, base.Add(time.Second))
	admin := NewUser("admin@example.com", domain.RoleAdmin, base.Add(2*time.Second))
	for _, u := range []domain.User{older, newer, admin} {
		require.NoError(t, s.Users().CreateUser(ctx, u))
	}

	p := NewProduct(older.ID, "lamp", base.Add(3*time.Second))
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	users, err := s.Users().ListNonAdminUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.Equal(t, newer.ID, users[0].ID)
	require.Empty(t, users[0].Products)
	require.NotNil(t, users[0].Products)

	require.Equal(t, older.ID, users[1].ID)
	require.Equal(t, []domain.ProductRef{{ID: p.ID, Title: "lamp"}}, users[1].Products)
}

func testProducts(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	owner := NewUser("owner@example.com", domain.RoleAdmin, base)
	other := NewUser("other@example.com", domain.RoleUser, base)
	require.NoError(t, s.Users().CreateUser(ctx, owner))
	require.NoError(t, s.Users().CreateUser(ctx, other))

	first := NewProduct(owner.ID, "first", base.Add(time.Second))
	second := NewProduct(other.ID, "second", base.Add(2*time.Second))
	require.NoError(t, s.Products().CreateProduct(ctx, first))
	require.NoError(t, s.Products().CreateProduct(ctx, second))

	orphan := NewProduct("missing-owner", "orphan", base)
	require.ErrorIs(t, s.Products().CreateProduct(ctx, orphan), store.ErrNotFound)

	got, err := s.Products().GetProductByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)
	require.Equal(t, 9.5, got.Price)
	require.Equal(t, domain.Owner{Name: owner.Name, Email: owner.Email}, got.Owner)

	all, err := s.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, first.ID, all[1].ID)

	mine, err := s.Products().ListProductsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, first.ID, mine[0].ID)

	none, err := s.Products().ListProductsByOwner(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)

	first.Title = "renamed"
	first.Price = 0
	first.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.Products().UpdateProduct(ctx, first))

	got, err = s.Products().GetProductByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Title)
	require.Zero(t, got.Price)

	require.NoError(t, s.Products().DeleteProduct(ctx, first.ID))
	_, err = s.Products().GetProductByID(ctx, first.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Products().DeleteProduct(ctx, first.ID), store.ErrNotFound)
	require.ErrorIs(t, s.Products().UpdateProduct(ctx, first), store.ErrNotFound)
}

func testCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC()

	u := NewUser("cascade@example.com", domain.RoleUser, now)
	require.NoError(t, s.Users().CreateUser(ctx, u))
	p := NewProduct(u.ID, "doomed", now)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Products().GetProductByID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testTx(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC()
	errBoom := errors.New("boom")

	rolledBack := NewUser("rollback@example.com", domain.RoleUser, now)
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, rolledBack))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	_, err = s.Users().GetUserByID(ctx, rolledBack.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	committed := NewUser("commit@example.com", domain.RoleUser, now)
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, committed)
	}))
	_, err = s.Users().GetUserByID(ctx, committed.ID)
	require.NoError(t, err)

	require.NoError(t, s.Ping(ctx))
}
