package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"widget"}`))
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Equal(t, "widget", b.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		b := body{Name: "keep"}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Equal(t, "keep", b.Name)
	})

	t.Run("invalid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		require.ErrorIs(t, httpx.DecodeJSON(req, &b), httpx.ErrInvalidBody)
	})
}

func TestWriteJSONDisablesCaching(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
