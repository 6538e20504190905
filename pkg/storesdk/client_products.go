package storesdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateProduct creates a product owned by the caller. Requires ADMIN.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	var out ProductResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/products/new", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts is public and needs no session.
func (c *Client) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	var out []ProductResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/products/all", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProductsByOwner(ctx context.Context, ownerID string) ([]ProductResponse, error) {
	var out []ProductResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/products/all/"+url.PathEscape(ownerID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	var out ProductResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error) {
	var out ProductResponse
	if err := c.call(ctx, http.MethodPatch, "/api/v1/products/edit/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, http.MethodDelete, "/api/v1/products/delete/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
