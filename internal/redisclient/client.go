package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"inventory-service/internal/models"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/set_stock.lua
var setStockScript string

type Client struct {
	rdb       *redis.Client
	setScript *redis.Script
	ttl       time.Duration
}

// NewClient creates a new Redis client with the stock script loaded
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newClient(rdb, ttl), nil
}

func newClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{
		rdb:       rdb,
		setScript: redis.NewScript(setStockScript),
		ttl:       ttl,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func stockKey(itemID int64) string {
	return fmt.Sprintf("stock:%d", itemID)
}

// SetStock caches a stock level unless a newer version is already cached.
// Returns false when the write was skipped.
func (c *Client) SetStock(ctx context.Context, level models.StockLevel) (bool, error) {
	result, err := c.setScript.Run(ctx, c.rdb, []string{stockKey(level.ItemID)},
		level.Quantity, level.Version, level.Name, int64(c.ttl/time.Second)).Result()
	if err != nil {
		return false, fmt.Errorf("set stock script failed: %w", err)
	}

	written, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}
	return written == 1, nil
}

// GetStock returns the cached stock level, or nil on a cache miss
func (c *Client) GetStock(ctx context.Context, itemID int64) (*models.StockLevel, error) {
	result, err := c.rdb.HGetAll(ctx, stockKey(itemID)).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	quantity, err := strconv.ParseInt(result["quantity"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached quantity for item %d: %w", itemID, err)
	}
	version, err := strconv.ParseInt(result["version"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached version for item %d: %w", itemID, err)
	}

	return &models.StockLevel{
		ItemID:   itemID,
		Name:     result["name"],
		Quantity: quantity,
		Version:  version,
	}, nil
}

// InvalidateStock drops the cached stock level of an item
func (c *Client) InvalidateStock(ctx context.Context, itemID int64) error {
	return c.rdb.Del(ctx, stockKey(itemID)).Err()
}

// AcquireLock acquires a short-lived lock, used to keep two requests with the
// same idempotency key from racing
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
