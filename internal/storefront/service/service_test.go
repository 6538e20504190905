package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/sqlite"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	store     store.Store
	hasher    *cryptox.PasswordHasher
	verifier  *jwtx.HMACVerifier
	auth      *service.AuthService
	users     *service.UserService
	products  *service.ProductService
	bootstrap *service.BootstrapService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	hasher := &cryptox.PasswordHasher{
		Pepper: "test-pepper",
		Params: cryptox.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
	}

	signer, err := jwtx.NewSignerHMAC("HS256", testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHMAC("HS256", testSecret, jwtx.VerifyOptions{Issuer: "storefront"})
	require.NoError(t, err)

	return &fixture{
		store:    s,
		hasher:   hasher,
		verifier: verifier,
		auth: &service.AuthService{
			Store:  s,
			Hasher: hasher,
			Tokens: &service.TokenService{Signer: signer, Issuer: "storefront", TTL: time.Hour},
		},
		users:     &service.UserService{Store: s},
		products:  &service.ProductService{Store: s},
		bootstrap: &service.BootstrapService{Store: s, Hasher: hasher},
	}
}

func (f *fixture) register(t *testing.T, name, email string) domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), service.RegisterInput{Name: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T, email string) domain.User {
	t.Helper()
	ctx := context.Background()
	created, _, err := f.bootstrap.EnsureAdmin(ctx, service.AdminSpec{Email: email, Password: "adminpass123", Name: "root"})
	require.NoError(t, err)
	require.True(t, created)
	u, err := f.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
