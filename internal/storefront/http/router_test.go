package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	storehttp "github.com/aussiebroadwan/storefront/internal/storefront/http"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/sqlite"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer    = "storefront"
	adminEmail    = "root@example.com"
	adminPassword = "adminpass123"
	userPassword  = "password123"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type harness struct {
	srv     *httptest.Server
	signer  *jwtx.HMACSigner
	adminID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessBehind(t, nil)
}

// newHarnessBehind serves the router as if deployed behind the given proxies.
func newHarnessBehind(t *testing.T, proxies []string) *harness {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(sqlite.DSN(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := &cryptox.PasswordHasher{
		Pepper: "test-pepper",
		Params: cryptox.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
	}
	signer, err := jwtx.NewSignerHMAC("HS256", testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHMAC("HS256", testSecret, jwtx.VerifyOptions{Issuer: testIssuer})
	require.NoError(t, err)

	bootstrap := &service.BootstrapService{Store: st, Hasher: hasher}
	_, _, err = bootstrap.EnsureAdmin(ctx, service.AdminSpec{Email: adminEmail, Password: adminPassword, Name: "root"})
	require.NoError(t, err)
	admin, err := st.Users().GetUserByEmail(ctx, adminEmail)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clientIP, err := httpx.NewClientIP(proxies)
	require.NoError(t, err)
	router := storehttp.NewRouter(verifier, httpx.CookieOptions{MaxAge: time.Hour}, clientIP, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:  st,
		Hasher: hasher,
		Tokens: &service.TokenService{Signer: signer, Issuer: testIssuer, TTL: time.Hour},
	}
	router.UserService = &service.UserService{Store: st}
	router.ProductService = &service.ProductService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &harness{srv: srv, signer: signer, adminID: admin.ID}
}

func (h *harness) client() *storesdk.Client {
	return storesdk.NewClient(h.srv.URL)
}

func (h *harness) adminClient(t *testing.T) *storesdk.Client {
	t.Helper()
	c := h.client()
	_, err := c.Login(context.Background(), storesdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	return c
}

// userClient registers and logs in a USER, returning its client and id.
func (h *harness) userClient(t *testing.T, name, email string) (*storesdk.Client, string) {
	t.Helper()
	ctx := context.Background()
	c := h.client()

	_, err := c.Register(ctx, storesdk.RegisterRequest{Name: name, Email: email, Password: userPassword})
	require.NoError(t, err)
	_, err = c.Login(ctx, storesdk.LoginRequest{Email: email, Password: userPassword})
	require.NoError(t, err)

	claims, err := c.SessionClaims()
	require.NoError(t, err)
	return c, claims.UserID
}

func (h *harness) sign(t *testing.T, c jwtx.Claims) string {
	t.Helper()
	token, err := h.signer.Sign(c)
	require.NoError(t, err)
	return token
}

func (h *harness) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(h.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func requireAPIError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr), "expected *httpx.APIError, got %v", err)
	require.Equal(t, code, apiErr.StatusCode)
	require.Equal(t, message, apiErr.Message)
}

func readErrorBody(t *testing.T, resp *http.Response) httpx.APIError {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}
