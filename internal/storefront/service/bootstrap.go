package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

// AdminSpec describes the operator-configured admin account.
type AdminSpec struct {
	Email    string
	Password string // generated when empty
	Name     string
}

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// EnsureAdmin creates the configured admin unless a user with that email
// already exists, which is left untouched. When the password was generated
// it is returned so the caller can show it once.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, spec AdminSpec) (created bool, generatedPassword string, err error) {
	l := slogx.FromContext(ctx)

	email := normaliseEmail(spec.Email)
	if email == "" {
		return false, "", nil
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		l.Info("bootstrap admin already present", slog.String("email", email))
		return false, "", nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, "", err
	}

	password := spec.Password
	if password == "" {
		if password, err = cryptox.GeneratePassword(); err != nil {
			return false, "", err
		}
		generatedPassword = password
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = "admin"
	}

	if err := validateInput(RegisterInput{Name: name, Email: email, Password: password}); err != nil {
		return false, "", err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return false, "", err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, "", nil
		}
		return false, "", err
	}

	l.Info("bootstrap admin created", slog.String("user_id", u.ID), slog.String("email", email))
	return true, generatedPassword, nil
}
