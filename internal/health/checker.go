package health

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/zynor/internal/client/api"
)

// Path is the liveness endpoint, served at the server root.
const Path = "/health"

// Getter is the part of *api.Client the API checker needs.
type Getter interface {
	Get(ctx context.Context, path string) (*api.Response, error)
	BaseURL() string
}

// APIChecker reports the API as up when GET <base>/health answers 2xx.
type APIChecker struct {
	client Getter
	url    string
}

// NewAPIChecker creates an APIChecker. The health URL is absolute so the
// API root prefix is not applied to it.
func NewAPIChecker(client Getter) *APIChecker {
	return &APIChecker{client: client, url: client.BaseURL() + Path}
}

// URL returns the probed URL.
func (c *APIChecker) URL() string {
	return c.url
}

// Check implements Checker.
func (c *APIChecker) Check(ctx context.Context) error {
	if _, err := c.client.Get(ctx, c.url); err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.url, err)
	}
	return nil
}
