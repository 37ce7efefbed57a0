package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.BalanceCache using Redis. It is a
// best-effort read cache; postgres stays the source of truth and every
// committed mutation invalidates the cached value.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "wallet:balance:",
	}
}

// Get retrieves a cached balance. ok is false if the key does not exist.
func (c *BalanceCache) Get(ctx context.Context, accountID uuid.UUID) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+accountID.String()).Result()
	if err != nil {
		if err == goredis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis balance get: %w", err)
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis balance parse: %w", err)
	}
	return balance, true, nil
}

// Set stores a balance with TTL.
func (c *BalanceCache) Set(ctx context.Context, accountID uuid.UUID, balance int64, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+accountID.String(), strconv.FormatInt(balance, 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate drops the cached balance for an account.
func (c *BalanceCache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	if err := c.client.Del(ctx, c.prefix+accountID.String()).Err(); err != nil {
		return fmt.Errorf("redis balance del: %w", err)
	}
	return nil
}
