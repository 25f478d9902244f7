package pricing

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// EstimateCache memoizes revenue estimates in Redis for a short TTL.
// Estimates are pure functions of the stored pricing configuration, so any
// write to a court simply invalidates its key. A nil client disables
// caching entirely and every method degrades to a miss.
type EstimateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEstimateCache wraps a Redis client; client may be nil.
func NewEstimateCache(rdb *redis.Client, ttl time.Duration) *EstimateCache {
	return &EstimateCache{rdb: rdb, ttl: ttl}
}

const portfolioKey = "revenue:portfolio"

func courtKey(courtID string) string {
	return "revenue:court:" + courtID
}

// GetCourt returns the cached daily estimate for a court, if present.
func (c *EstimateCache) GetCourt(ctx context.Context, courtID string) (int64, bool) {
	return c.get(ctx, courtKey(courtID))
}

// SetCourt stores a court's daily estimate.
func (c *EstimateCache) SetCourt(ctx context.Context, courtID string, amount int64) {
	c.set(ctx, courtKey(courtID), amount)
}

// GetPortfolio returns the cached portfolio estimate, if present.
func (c *EstimateCache) GetPortfolio(ctx context.Context) (int64, bool) {
	return c.get(ctx, portfolioKey)
}

// SetPortfolio stores the portfolio estimate.
func (c *EstimateCache) SetPortfolio(ctx context.Context, amount int64) {
	c.set(ctx, portfolioKey, amount)
}

// Invalidate drops a court's estimate and the portfolio roll-up after a
// pricing change.
func (c *EstimateCache) Invalidate(ctx context.Context, courtID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, courtKey(courtID), portfolioKey).Err(); err != nil {
		log.Printf("estimate cache: invalidate %s failed: %v", courtID, err)
	}
}

func (c *EstimateCache) get(ctx context.Context, key string) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("estimate cache: get %s failed: %v", key, err)
		}
		return 0, false
	}
	amount, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func (c *EstimateCache) set(ctx context.Context, key string, amount int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, strconv.FormatInt(amount, 10), c.ttl).Err(); err != nil {
		log.Printf("estimate cache: set %s failed: %v", key, err)
	}
}
