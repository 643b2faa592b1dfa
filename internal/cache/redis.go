// Package cache is a read-through Redis layer for dashboard aggregates.
// It is strictly derived state: every write to an entity class invalidates
// the aggregates that depend on it, and a cache miss (or an unreachable
// Redis) always falls through to the store. Nothing here is ever treated
// as authoritative.
package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aggregate cache keys
const (
	DashboardKey      = "reports:dashboard"
	InventoryStockKey = "inventory:stock"
	CreditSummaryKey  = "credits:summary"
)

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully:
// on failure every Get misses and every Set is a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys.
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateInventoryCaches clears aggregates derived from inventory lots.
// Called when: CreateLot
func InvalidateInventoryCaches(ctx context.Context) {
	InvalidateKeys(ctx, InventoryStockKey, DashboardKey)
}

// InvalidateSalesCaches clears aggregates derived from sales. A sale also
// moves stock, so the stock key goes with it.
// Called when: RecordSale
func InvalidateSalesCaches(ctx context.Context) {
	InvalidateKeys(ctx, InventoryStockKey, DashboardKey, CreditSummaryKey)
}

// InvalidateCreditCaches clears aggregates derived from the credit book.
// Called when: CreateCredit, UpdateCreditStatus
func InvalidateCreditCaches(ctx context.Context) {
	InvalidateKeys(ctx, CreditSummaryKey, DashboardKey)
}

// IsHealthy returns true if the Redis connection is working.
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
