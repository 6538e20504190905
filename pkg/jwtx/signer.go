package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret we accept, in bytes.
const MinSecretLength = 32

var ErrWeakSecret = fmt.Errorf("jwtx: secret must be at least %d bytes", MinSecretLength)

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// HMACSigner signs tokens with a shared secret (HS256, HS384 or HS512).
type HMACSigner struct {
	method *jwt.SigningMethodHMAC
	secret []byte
}

// NewSignerHMAC creates a signer for alg. The secret is copied, so later
// changes to the caller's slice have no effect.
func NewSignerHMAC(alg string, secret []byte) (*HMACSigner, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}

	s := &HMACSigner{method: method, secret: append([]byte(nil), secret...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HMACSigner) Alg() string { return s.method.Alg() }

// Sign refuses claims that a verifier would reject as malformed.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	if err := claims.CheckRequired(); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Validate does a quick sanity check on the configured secret.
func (s *HMACSigner) Validate() error {
	if s.method == nil {
		return errors.New("jwtx: nil signing method")
	}
	if len(s.secret) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}

func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAlgMismatch, alg)
	}
}
