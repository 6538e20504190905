package http

import (
	"net/http"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
)

type UserHandler struct {
	UserService *service.UserService
}

// HandleList lists every non-admin user with their products.
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	storesdk.UserListResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/users/all [get].
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := storesdk.UserListResponse{Users: make([]storesdk.UserSummary, len(users))}
	for i, u := range users {
		resp.Users[i] = toUserSummary(u)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet returns one user. Callers may read themselves; admins anyone.
//
//	@Summary	Get user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	storesdk.UserResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody	"User not found"
//	@Security	CookieAuth
//	@Router		/api/v1/users/{id} [get].
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdate changes a user's name or role. Role changes need ADMIN.
//
//	@Summary	Update user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"User ID"
//	@Param		body	body		storesdk.UpdateUserRequest	true	"name, role"
//	@Success	200		{object}	storesdk.UserResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/users/edit/{id} [patch].
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req storesdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	in := service.UpdateUserInput{Name: req.Name}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	u, err := h.UserService.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleDelete removes a user and their products.
//
//	@Summary	Delete user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	storesdk.MessageResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/users/delete/{id} [delete].
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.UserService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "User deleted successfully"})
}
