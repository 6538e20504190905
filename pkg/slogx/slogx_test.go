package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var m map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &m))
	return m
}

func TestNewAttachesServiceAttributes(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "storefront", Version: "test", Env: "test", Level: "warn", Output: &buf})

	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Warn("shown")
	line := lastLine(t, &buf)
	require.Equal(t, "shown", line["msg"])
	require.Equal(t, "storefront", line["service"])
	require.Equal(t, "test", line["env"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))

	var buf bytes.Buffer
	l := newTestLogger(&buf)
	require.Equal(t, l, slogx.FromContext(slogx.WithContext(context.Background(), l)))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	mw := slogx.HTTPMiddleware(newTestLogger(&buf))

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusCreated)
	}))

	t.Run("propagates the caller's request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/new", nil)
		req.Header.Set(slogx.RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))
		line := lastLine(t, &buf)
		require.Equal(t, "http_request", line["msg"])
		require.Equal(t, "req-123", line["req_id"])
		require.EqualValues(t, http.StatusCreated, line["status"])
		require.Equal(t, "/api/v1/products/new", line["path"])
	})

	t.Run("generates a request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(slogx.RequestIDHeader)
		require.Len(t, id, 26)
		require.Contains(t, buf.String(), `"msg":"inside"`)
		require.Contains(t, buf.String(), id)
	})
}

func TestHTTPMiddlewareAccessLine(t *testing.T) {
	var buf bytes.Buffer
	mw := slogx.HTTPMiddleware(newTestLogger(&buf),
		slogx.WithClientIP(func(*http.Request) string { return "203.0.113.9" }),
		slogx.WithQuietPaths("/health_check"),
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.AddAccessAttrs(r.Context(), "user_id", "u1")
		_, _ = w.Write([]byte("hello"))
	}))

	t.Run("carries client address, size and handler attrs", func(t *testing.T) {
		buf.Reset()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/all", nil))

		line := lastLine(t, &buf)
		require.Equal(t, "INFO", line["level"])
		require.Equal(t, "203.0.113.9", line["client_ip"])
		require.NotContains(t, line, "remote_addr")
		require.EqualValues(t, 5, line["bytes"])
		require.Equal(t, "u1", line["user_id"])
	})

	t.Run("quiet paths log at debug", func(t *testing.T) {
		buf.Reset()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health_check", nil))
		require.Equal(t, "DEBUG", lastLine(t, &buf)["level"])
	})
}

func TestAddAccessAttrsOutsideMiddleware(t *testing.T) {
	require.NotPanics(t, func() {
		slogx.AddAccessAttrs(context.Background(), "user_id", "u1")
	})
}
