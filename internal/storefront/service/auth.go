package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

type RegisterInput struct {
	Name     string `validate:"required,min=3,max=15"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
}

// LoginInput skips the length rule so a short guess is just a wrong guess.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=128"`
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	Claims jwtx.Claims
	User   domain.User
}

type AuthService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Tokens *TokenService

	dummyOnce sync.Once
	dummyHash string
}

// Register creates a USER account. Registration never grants ADMIN.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normaliseEmail(in.Email)
	if err := validateInput(in); err != nil {
		return domain.User{}, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, domain.ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	l := slogx.FromContext(ctx)

	in.Email = normaliseEmail(in.Email)
	if err := validateInput(in); err != nil {
		return Session{}, err
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same hashing cost as a real check.
			_ = s.Hasher.Verify(in.Password, s.dummy())
			l.Info("login failed", slog.String("reason", "unknown_email"))
			return Session{}, domain.ErrBadCredentials
		}
		return Session{}, err
	}

	if err := s.Hasher.Verify(in.Password, u.PasswordHash); err != nil {
		l.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", u.ID))
		return Session{}, domain.ErrBadCredentials
	}

	if s.Hasher.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u.ID, in.Password)
	}

	token, claims, err := s.Tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID))
	return Session{Token: token, Claims: claims, User: u}, nil
}

// rehash upgrades a legacy or outdated hash. Failure only costs the upgrade.
func (s *AuthService) rehash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Warn("password rehash failed", slog.Any("error", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash, time.Now().UTC()); err != nil {
		l.Warn("password rehash failed", slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("storefront-unknown-user")
	})
	return s.dummyHash
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
