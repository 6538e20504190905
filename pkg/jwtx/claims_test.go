package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	c := jwtx.NewSessionClaims("user-1", "a@example.com", jwtx.RoleUser, exampleIssuer, time.Hour, now)

	require.Equal(t, "user-1", c.UserID)
	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, exampleIssuer, c.Issuer)
	require.Equal(t, now.Truncate(time.Second), c.IssuedAt.Time)
	require.Equal(t, now.Truncate(time.Second).Add(time.Hour), c.ExpiresAt.Time)
	require.NoError(t, c.CheckRequired())
	require.False(t, c.IsAdmin())
}

func TestCheckRequired(t *testing.T) {
	now := time.Now()
	valid := func() jwtx.Claims {
		return jwtx.NewSessionClaims("user-1", "a@example.com", jwtx.RoleAdmin, "", time.Hour, now)
	}

	tests := []struct {
		name   string
		mutate func(c *jwtx.Claims)
	}{
		{"missing id", func(c *jwtx.Claims) { c.UserID = "" }},
		{"sub mismatch", func(c *jwtx.Claims) { c.Subject = "someone-else" }},
		{"missing email", func(c *jwtx.Claims) { c.Email = "" }},
		{"missing role", func(c *jwtx.Claims) { c.Role = "" }},
		{"unknown role", func(c *jwtx.Claims) { c.Role = "ROOT" }},
		{"missing iat", func(c *jwtx.Claims) { c.IssuedAt = nil }},
		{"missing exp", func(c *jwtx.Claims) { c.ExpiresAt = nil }},
		{"exp before iat", func(c *jwtx.Claims) { c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			require.ErrorIs(t, c.CheckRequired(), jwtx.ErrMalformed)
		})
	}

	c := valid()
	c.Subject = "" // tokens without sub are still acceptable
	require.NoError(t, c.CheckRequired())
	require.True(t, c.IsAdmin())
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "storefront"}}

	require.NoError(t, c.ValidateIssuer("storefront"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("elsewhere"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
		require.NoError(t, c.ValidateExpiry(now, 0))
	})

	t.Run("expired token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}}
		require.ErrorIs(t, c.ValidateExpiry(now, 0), jwtx.ErrExpired)
	})

	t.Run("expired within leeway", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}}
		require.NoError(t, c.ValidateExpiry(now, 30*time.Second))
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{NotBefore: jwt.NewNumericDate(now.Add(time.Minute))}}
		require.ErrorIs(t, c.ValidateExpiry(now, 0), jwtx.ErrNotYetValid)
	})
}
