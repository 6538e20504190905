package httpx

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

var ErrForbidden = errors.New("httpx: unauthorized")

// AllowSelfOrAdmin permits the owner of a resource or any admin.
func AllowSelfOrAdmin(c jwtx.Claims, ownerID string) error {
	if c.UserID == "" {
		return ErrForbidden
	}
	if c.IsAdmin() || (ownerID != "" && c.UserID == ownerID) {
		return nil
	}
	return ErrForbidden
}

// AllowAdmin permits admins only.
func AllowAdmin(c jwtx.Claims) error {
	if c.UserID == "" || !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Policy decides whether the identity may proceed with the request.
type Policy func(c jwtx.Claims, r *http.Request) error

// RequireSelfOrAdmin compares the identity against the named path value.
func RequireSelfOrAdmin(pathParam string) Middleware {
	return Authorize(func(c jwtx.Claims, r *http.Request) error {
		return AllowSelfOrAdmin(c, r.PathValue(pathParam))
	})
}

// RequireAdmin admits admins only.
func RequireAdmin() Middleware {
	return Authorize(func(c jwtx.Claims, _ *http.Request) error {
		return AllowAdmin(c)
	})
}

// Authorize runs p against the identity attached by SessionMiddleware. A
// missing identity, a denial, or a panic in p all end in 401.
func Authorize(p Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if err := evaluate(p, r); err != nil {
				log.Warn("authorization denied", "err", err, "path", r.URL.Path)
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func evaluate(p Policy, r *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ErrForbidden
		}
	}()

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return ErrForbidden
	}
	return p(claims, r)
}
