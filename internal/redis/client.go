// Package redis caches derived dashboard data and the last sync outcome.
// The service runs fine without it; callers treat a nil client as a cache
// miss everywhere.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"landlord-service/internal/config"
)

// Key prefixes
const (
	DashboardSummaryKey = "dashboard:summary"
	LastSyncKey         = "sync:last"
)

// Client wraps the Redis client with application-specific methods
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// DashboardSummary is the cached shape of the dashboard summary endpoint
type DashboardSummary struct {
	Properties      int     `json:"properties"`
	Occupied        int     `json:"occupied"`
	Vacant          int     `json:"vacant"`
	Maintenance     int     `json:"maintenance"`
	Tenants         int     `json:"tenants"`
	OutstandingRent float64 `json:"outstanding_rent"`
	OpenRepairs     int     `json:"open_repairs"`
	GeneratedAt     string  `json:"generated_at"`
}

// SaveDashboardSummary caches the dashboard summary with a TTL
func (c *Client) SaveDashboardSummary(ctx context.Context, summary *DashboardSummary, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard summary: %w", err)
	}
	return c.rdb.Set(ctx, DashboardSummaryKey, data, ttl).Err()
}

// GetDashboardSummary returns the cached summary, or nil on a miss
func (c *Client) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, DashboardSummaryKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard summary: %w", err)
	}
	var summary DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard summary: %w", err)
	}
	return &summary, nil
}

// InvalidateDashboardSummary drops the cached summary after a mutation
func (c *Client) InvalidateDashboardSummary(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, DashboardSummaryKey).Err()
}

// LastSync records the outcome of the most recent sync run
type LastSync struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Properties int       `json:"properties"`
	Tenants    int       `json:"tenants"`
	Payments   int       `json:"payments"`
	Repairs    int       `json:"repairs"`
	SyncedAt   time.Time `json:"synced_at"`
}

// SaveLastSync stores the latest sync outcome (no expiry)
func (c *Client) SaveLastSync(ctx context.Context, last *LastSync) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(last)
	if err != nil {
		return fmt.Errorf("failed to marshal sync record: %w", err)
	}
	return c.rdb.Set(ctx, LastSyncKey, data, 0).Err()
}

// GetLastSync returns the most recent sync outcome, or nil when none exists
func (c *Client) GetLastSync(ctx context.Context) (*LastSync, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, LastSyncKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync record: %w", err)
	}
	var last LastSync
	if err := json.Unmarshal(data, &last); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync record: %w", err)
	}
	return &last, nil
}
