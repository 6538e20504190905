package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"

	_ "github.com/aussiebroadwan/storefront/api/storefront" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	cookie       httpx.CookieOptions
	limits       httpx.Limiters
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProductService *service.ProductService
}

func NewRouter(
	verifier jwtx.Verifier,
	cookie httpx.CookieOptions,
	clientIP *httpx.ClientIP,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		cookie:       cookie,
		limits:       httpx.Limiters{ClientIP: clientIP},
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger,
			slogx.WithClientIP(clientIP.Resolve),
			slogx.WithQuietPaths("/health_check", "/readyz"),
		),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerProducts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Storefront API
//	@version					0.1.0
//	@description				User and product management with cookie based sessions.
//	@description
//	@description				Sessions are HMAC signed JWTs carried in the HTTP-only accessToken cookie.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/storefront
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8081
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						accessToken
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) session() httpx.Middleware {
	return httpx.SessionMiddleware(r.verifier)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, Cookie: r.cookie}

	// Credential routes are bounded per client address and email, and per
	// email across all addresses.
	r.Mux.Handle("POST /api/v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			r.limits.ByIPAndField(httpx.LoginLimit, "email"),
			r.limits.ByField(httpx.AccountLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			r.limits.ByIPAndField(httpx.LoginLimit, "email"),
			r.limits.ByField(httpx.AccountLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.limits.ByIP(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			r.session(),
			r.limits.ByUser(httpx.ReadLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/v1/users/all",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.session(),
			r.limits.ByUser(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.session(),
			httpx.RequireSelfOrAdmin("id"),
			r.limits.ByUser(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("PATCH /api/v1/users/edit/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.session(),
			httpx.RequireSelfOrAdmin("id"),
			r.limits.ByUser(httpx.WriteLimit),
		),
	)
	r.Mux.Handle("DELETE /api/v1/users/delete/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.session(),
			httpx.RequireSelfOrAdmin("id"),
			r.limits.ByUser(httpx.WriteLimit),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductHandler{ProductService: r.ProductService}

	// Catalogue reads are public.
	r.Mux.Handle("GET /api/v1/products/all",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.limits.ByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.limits.ByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /api/v1/products/all/{ownerId}",
		httpx.Chain(http.HandlerFunc(h.HandleListByOwner),
			r.session(),
			httpx.RequireSelfOrAdmin("ownerId"),
			r.limits.ByUser(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/products/new",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.session(),
			httpx.RequireAdmin(),
			r.limits.ByUser(httpx.WriteLimit),
		),
	)
	r.Mux.Handle("PATCH /api/v1/products/edit/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.session(),
			httpx.RequireAdmin(),
			r.limits.ByUser(httpx.WriteLimit),
		),
	)
	r.Mux.Handle("DELETE /api/v1/products/delete/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.session(),
			httpx.RequireAdmin(),
			r.limits.ByUser(httpx.WriteLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /health_check",
		httpx.Chain(HealthHandler(r.startTime, r.buildVersion),
			r.limits.ByIP(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			r.limits.ByIP(httpx.ReadLimit),
		),
	)
}
