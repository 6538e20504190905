package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client()

	msg, err := c.Register(ctx, storesdk.RegisterRequest{Name: "alice", Email: "alice@example.com", Password: userPassword})
	require.NoError(t, err)
	require.Equal(t, "User created successfully", msg.Message)

	_, err = c.Register(ctx, storesdk.RegisterRequest{Name: "alice", Email: "ALICE@example.com", Password: userPassword})
	requireAPIError(t, err, http.StatusBadRequest, "User already exists")

	_, err = c.Register(ctx, storesdk.RegisterRequest{Name: "al", Email: "bob@example.com", Password: userPassword})
	requireAPIError(t, err, http.StatusBadRequest, "[Name must be at least 3 characters long]")

	_, err = c.Register(ctx, storesdk.RegisterRequest{})
	requireAPIError(t, err, http.StatusBadRequest,
		"[Name must be at least 3 characters long , Invalid email , Password must be at least 8 characters long]")

	resp := h.postJSON(t, "/api/v1/auth/register", `{"name":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request body", readErrorBody(t, resp).Message)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h := newHarness(t)
	_, err := h.client().Register(context.Background(),
		storesdk.RegisterRequest{Name: "alice", Email: "alice@example.com", Password: userPassword})
	require.NoError(t, err)

	resp := h.postJSON(t, "/api/v1/auth/login", `{"email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body storesdk.MessageResponse
	require.NoError(t, jsonDecode(resp, &body))
	require.Equal(t, "Login successful", body.Message)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == httpx.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session, "accessToken cookie not set")
	require.True(t, session.HttpOnly)
	require.Equal(t, "/", session.Path)
	require.Equal(t, int(time.Hour.Seconds()), session.MaxAge)

	claims, err := jwtx.Decode(session.Value)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, jwtx.RoleUser, claims.Role)
}

func TestLoginFailureSetsNoCookie(t *testing.T) {
	h := newHarness(t)
	_, err := h.client().Register(context.Background(),
		storesdk.RegisterRequest{Name: "alice", Email: "alice@example.com", Password: userPassword})
	require.NoError(t, err)

	for name, body := range map[string]string{
		"wrong password": `{"email":"alice@example.com","password":"not-the-password"}`,
		"unknown email":  `{"email":"nobody@example.com","password":"password123"}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := h.postJSON(t, "/api/v1/auth/login", body)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Empty(t, resp.Cookies())
			require.Equal(t,
				httpx.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid Credentials"},
				readErrorBody(t, resp),
			)
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client()

	var err error
	for range httpx.LoginLimit.Burst {
		_, err = c.Login(ctx, storesdk.LoginRequest{Email: "target@example.com", Password: "guess-guess"})
		requireAPIError(t, err, http.StatusUnauthorized, "Invalid Credentials")
	}
	_, err = c.Login(ctx, storesdk.LoginRequest{Email: "target@example.com", Password: "guess-guess"})
	requireAPIError(t, err, http.StatusTooManyRequests, "Too many requests. Please try again later.")

	// Other accounts from the same address are unaffected.
	_, err = c.Login(ctx, storesdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
}

func TestLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	h := newHarness(t)
	body := `{"email":"target@example.com","password":"guess-guess"}`

	codes := make([]int, 0, 2*httpx.LoginLimit.Burst)
	for i := range 2 * httpx.LoginLimit.Burst {
		req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/v1/auth/login", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	for i, code := range codes {
		if i < httpx.LoginLimit.Burst {
			require.Equal(t, http.StatusUnauthorized, code, "attempt %d", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, code, "attempt %d", i+1)
		}
	}
}

func TestLoginAccountLimitBehindProxy(t *testing.T) {
	h := newHarnessBehind(t, []string{"127.0.0.1/32", "::1/128"})
	body := `{"email":"target@example.com","password":"guess-guess"}`

	// Every attempt arrives from a different forwarded client, so only the
	// per-account bucket can stop them.
	unauthorized, limited := 0, 0
	for i := range httpx.AccountLimit.Burst + 3 {
		req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/v1/auth/login", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			unauthorized++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	require.Equal(t, httpx.AccountLimit.Burst, unauthorized)
	require.Equal(t, 3, limited)

	// Another account through the same proxy is unaffected.
	_, err := h.client().Login(context.Background(), storesdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
}

func TestMeAndLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c, id := h.userClient(t, "alice", "alice@example.com")

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, id, me.ID)
	require.Equal(t, "alice@example.com", me.Email)
	require.Equal(t, jwtx.RoleUser, me.Role)
	require.Equal(t, time.Hour, me.ExpiresAt.Sub(me.IssuedAt))

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, "Missing access token")
}

func TestSessionRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	now := time.Now()

	foreign, err := jwtx.NewSignerHMAC("HS256", []byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	forged, err := foreign.Sign(jwtx.NewSessionClaims(h.adminID, adminEmail, jwtx.RoleAdmin, testIssuer, time.Hour, now))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"foreign secret", forged, "Invalid token signature"},
		{"expired", h.sign(t, jwtx.NewSessionClaims(h.adminID, adminEmail, jwtx.RoleAdmin, testIssuer, time.Hour, now.Add(-2*time.Hour))), "Session expired"},
		{"wrong issuer", h.sign(t, jwtx.NewSessionClaims(h.adminID, adminEmail, jwtx.RoleAdmin, "elsewhere", time.Hour, now)), "Invalid token"},
		{"garbage", "not.a.jwt", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := h.client()
			require.NoError(t, c.SetToken(tt.token))

			_, err := c.Me(ctx)
			requireAPIError(t, err, http.StatusUnauthorized, tt.message)

			_, err = c.CreateProduct(ctx, storesdk.CreateProductRequest{Title: "forged"})
			requireAPIError(t, err, http.StatusUnauthorized, tt.message)
		})
	}

	products, err := h.client().ListProducts(ctx)
	require.NoError(t, err)
	require.Empty(t, products)
}

func jsonDecode(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
