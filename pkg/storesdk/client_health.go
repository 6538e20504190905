package storesdk

import (
	"context"
	"net/http"
)

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/health_check", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready checks that the service can reach its store.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
