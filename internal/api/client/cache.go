package client

import (
	"context"
	"time"
)

// CacheStatus describes the server's catalog snapshot.
type CacheStatus struct {
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loaded_at"`
	Degraded bool      `json:"degraded"`
	Reason   string    `json:"reason,omitempty"`
}

// GetCacheStatus returns the current catalog snapshot stats.
func (c *Client) GetCacheStatus(ctx context.Context) (*CacheStatus, error) {
	var status CacheStatus
	if err := c.get(ctx, "/api/v1/cache", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ReloadCache asks the server to rebuild its catalog snapshot.
func (c *Client) ReloadCache(ctx context.Context) (*CacheStatus, error) {
	var status CacheStatus
	if err := c.post(ctx, "/api/v1/cache/reload", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Health checks the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}
