package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

// Actor is the authenticated caller performing an operation.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name *string      `validate:"omitnil,min=3,max=15"`
	Role *domain.Role `validate:"omitnil,oneof=USER ADMIN"`
}

type UserService struct {
	Store store.Store
}

// List returns every non-admin user with their product refs, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.UserWithProducts, error) {
	return s.Store.Users().ListNonAdminUsers(ctx)
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return u, nil
}

// Update applies in to the user. Only admins may change a role, including
// their own.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := validateInput(in); err != nil {
		return domain.User{}, err
	}

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			return mapUserErr(err)
		}

		if in.Role != nil && *in.Role != u.Role {
			if !actor.IsAdmin() {
				l.Warn("role change denied", slog.String("actor_id", actor.ID), slog.String("user_id", id))
				return domain.ErrRoleChangeDenied
			}
			u.Role = *in.Role
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		u.UpdatedAt = time.Now().UTC()

		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return mapUserErr(err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user updated", slog.String("user_id", id), slog.String("actor_id", actor.ID))
	return updated, nil
}

// Delete removes the user and, through the schema, their products.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		return mapUserErr(err)
	}
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id), slog.String("actor_id", actor.ID))
	return nil
}

func mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
