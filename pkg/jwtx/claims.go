package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a login stays valid when nothing else is
// configured.
const DefaultSessionTTL = 48 * time.Hour

// Roles carried in the "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// Claims are the session-token claims. The payload keeps the "id" and
// "email" fields existing cookie consumers read, alongside the registered
// claims ("sub" mirrors "id").
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// NewSessionClaims builds the claims for a freshly authenticated user.
// Given the same inputs and now it always yields the same claims, so the
// signed token only varies with time.
func NewSessionClaims(userID, email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

// CheckRequired fails with ErrMalformed unless every identity field is
// present and consistent. A token missing any of them never maps to a
// default identity.
func (c *Claims) CheckRequired() error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("%w: missing id", ErrMalformed)
	case c.Subject != "" && c.Subject != c.UserID:
		return fmt.Errorf("%w: sub does not match id", ErrMalformed)
	case c.Email == "":
		return fmt.Errorf("%w: missing email", ErrMalformed)
	case !ValidRole(c.Role):
		return fmt.Errorf("%w: unknown role %q", ErrMalformed, c.Role)
	case c.IssuedAt == nil:
		return fmt.Errorf("%w: missing iat", ErrMalformed)
	case c.ExpiresAt == nil:
		return fmt.Errorf("%w: missing exp", ErrMalformed)
	case !c.ExpiresAt.After(c.IssuedAt.Time):
		return fmt.Errorf("%w: exp not after iat", ErrMalformed)
	}
	return nil
}

// IsAdmin reports whether the claims carry the ADMIN role.
func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry checks exp and nbf against now, allowing leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
