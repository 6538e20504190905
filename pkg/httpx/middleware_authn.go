package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "accessToken"

var ErrMissingCookie = errors.New("httpx: missing session cookie")

// ExtractSession reads the session cookie and verifies it. It returns
// ErrMissingCookie when no token is present, otherwise the verifier error.
func ExtractSession(r *http.Request, v jwtx.Verifier) (jwtx.Claims, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return jwtx.Claims{}, ErrMissingCookie
	}
	return v.Verify(c.Value)
}

// SessionMiddleware rejects requests without a valid session cookie and
// attaches the verified claims to the request context.
func SessionMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			claims, err := ExtractSession(r, v)
			if err != nil {
				log.Warn("session rejected", "err", err)
				WriteError(w, http.StatusUnauthorized, sessionErrorMessage(err))
				return
			}

			ctx = contextWithClaims(ctx, claims)
			ctx = slogx.WithContext(ctx, log.With("user_id", claims.UserID))
			slogx.AddAccessAttrs(ctx, "user_id", claims.UserID, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingCookie):
		return "Missing access token"
	case errors.Is(err, jwtx.ErrExpired):
		return "Session expired"
	case errors.Is(err, jwtx.ErrInvalidSig):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}
