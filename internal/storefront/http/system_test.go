package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHealthAndReadiness(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client()

	health, err := c.Health(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	ready, err := c.Ready(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t)

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/health_check", nil)
	require.NoError(t, err)
	req.Header.Set(slogx.RequestIDHeader, "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get(slogx.RequestIDHeader))

	resp2, err := http.Get(h.srv.URL + "/health_check")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NotEmpty(t, resp2.Header.Get(slogx.RequestIDHeader))
}

func TestSwaggerServed(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
