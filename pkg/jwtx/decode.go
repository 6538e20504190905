package jwtx

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Decode reads the claims out of a token WITHOUT checking its signature,
// issuer or expiry. The result proves nothing about who sent the token and
// must never feed an access decision; the server side only ever works with
// claims returned by a Verifier. Clients use it to inspect their own
// session.
func Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}
