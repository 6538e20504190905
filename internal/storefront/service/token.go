package service

import (
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

// TokenService issues session tokens for authenticated users.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs a session token for u.
func (s *TokenService) Issue(u domain.User) (string, jwtx.Claims, error) {
	claims := jwtx.NewSessionClaims(u.ID, u.Email, string(u.Role), s.Issuer, s.ttl(), s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, err
	}
	return token, claims, nil
}
