package storesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers returns every non-admin user with their products.
func (c *Client) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var out UserListResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/users/all", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	var out UserResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.call(ctx, http.MethodPatch, "/api/v1/users/edit/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, http.MethodDelete, "/api/v1/users/delete/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
