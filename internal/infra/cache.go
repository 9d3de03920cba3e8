package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productListKey = "cache:products:active"
	productListTTL = 60 * time.Second
)

// ProductCache is a read-through Redis cache for the public product listing,
// the hottest read path of the storefront. Stock changes invalidate it so a
// sold-out product never lingers as available. All methods are best-effort:
// a Redis hiccup degrades to DB reads, never to an error.
type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb}
}

// GetProductList returns the cached listing, or ok=false on miss.
func (c *ProductCache) GetProductList(ctx context.Context, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Msg("product cache: stale payload discarded")
		_ = c.rdb.Del(ctx, productListKey).Err()
		return false
	}
	return true
}

// SetProductList stores the listing with a short TTL.
func (c *ProductCache) SetProductList(ctx context.Context, v interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productListKey, raw, productListTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache: set failed")
	}
}

// InvalidateProducts drops the cached listing after any catalog or stock write.
func (c *ProductCache) InvalidateProducts(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, productListKey).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache: invalidate failed")
	}
}
