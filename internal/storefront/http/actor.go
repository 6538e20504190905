package http

import (
	"net/http"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
)

// actorFrom builds the service actor from the verified session. ok is false
// when the request never passed SessionMiddleware.
func actorFrom(r *http.Request) (service.Actor, bool) {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: c.UserID, Role: domain.Role(c.Role)}, true
}
