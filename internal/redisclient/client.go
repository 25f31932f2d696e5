package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	lastSyncKey   = "sync:last_run"
	uiStatePrefix = "uistate:"

	// uiStateTTL bounds how long a remembered filter/selection survives.
	uiStateTTL = 30 * 24 * time.Hour
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetLastSyncSummary stores the most recent sync run summary as JSON.
func (c *Client) SetLastSyncSummary(ctx context.Context, summary interface{}) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal sync summary: %w", err)
	}
	return c.rdb.Set(ctx, lastSyncKey, payload, 0).Err()
}

// GetLastSyncSummary retrieves the most recent sync run summary into out.
// Returns false when no sync has been recorded yet.
func (c *Client) GetLastSyncSummary(ctx context.Context, out interface{}) (bool, error) {
	payload, err := c.rdb.Get(ctx, lastSyncKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal sync summary: %w", err)
	}
	return true, nil
}

// SetUIState stores client session state (filters, selections) under an
// explicit persistence key.
func (c *Client) SetUIState(ctx context.Context, key, value string) error {
	return c.rdb.Set(ctx, uiStatePrefix+key, value, uiStateTTL).Err()
}

// GetUIState retrieves client session state for a key. Returns an empty
// string when nothing was stored.
func (c *Client) GetUIState(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.Get(ctx, uiStatePrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}
