package http

import (
	"net/http"

	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
	Cookie      httpx.CookieOptions
}

// HandleRegister creates a USER account.
//
//	@Summary		Register
//	@Description	Creates a USER account. Registration never grants ADMIN.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		storesdk.RegisterRequest	true	"name, email, password"
//	@Success		201		{object}	storesdk.MessageResponse
//	@Failure		400		{object}	httpx.ErrorBody	"Validation failed or user already exists"
//	@Failure		429		{object}	httpx.ErrorBody
//	@Router			/api/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req storesdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, storesdk.MessageResponse{Message: "User created successfully"})
}

// HandleLogin checks credentials and sets the session cookie.
//
//	@Summary		Login
//	@Description	Verifies the credentials and sets the HTTP-only accessToken cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		storesdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	storesdk.MessageResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid Credentials"
//	@Failure		429		{object}	httpx.ErrorBody
//	@Router			/api/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req storesdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sess, err := h.AuthService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, sess.Token, h.Cookie)
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Login successful"})
}

// HandleLogout clears the session cookie. The token itself stays valid
// until it expires.
//
//	@Summary	Logout
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	storesdk.MessageResponse
//	@Router		/api/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.Cookie)
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Logout successful"})
}

// HandleMe returns the verified identity of the caller.
//
//	@Summary	Current session
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	storesdk.MeResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		slogx.FromContext(r.Context()).Error("me: no verified claims in context")
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp := storesdk.MeResponse{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if claims.IssuedAt != nil {
		resp.IssuedAt = claims.IssuedAt.UTC()
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
