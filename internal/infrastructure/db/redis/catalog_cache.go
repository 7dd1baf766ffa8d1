package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/animelist/watchlist-api/internal/api/metrics"
	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	catalogKey        = "catalog:all"
	generationKey     = "catalog:gen"
	defaultCatalogTTL = 5 * time.Minute
)

// errStaleGeneration aborts a write whose catalog was loaded before the
// latest invalidation.
var errStaleGeneration = errors.New("catalog generation moved")

// CatalogCache keeps the full anime catalog as one JSON value, next to a
// generation counter bumped by every invalidation.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a CatalogCache wrapping the given Redis client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetAll returns the cached catalog with the generation it was read at.
func (c *CatalogCache) GetAll(ctx context.Context) (ports.CatalogSnapshot, error) {
	vals, err := c.client.MGet(ctx, generationKey, catalogKey).Result()
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		return ports.CatalogSnapshot{}, fmt.Errorf("catalog cache get: %w", err)
	}

	gen, err := parseGeneration(vals[0])
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		return ports.CatalogSnapshot{}, err
	}

	raw, ok := vals[1].(string)
	if !ok {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return ports.CatalogSnapshot{Generation: gen}, nil
	}

	var items []domain.Anime
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		return ports.CatalogSnapshot{}, fmt.Errorf("catalog cache decode: %w", err)
	}
	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return ports.CatalogSnapshot{Items: items, Hit: true, Generation: gen}, nil
}

// SetAll stores items (expires after the configured TTL) unless the
// generation moved past generation. The check and the write run under WATCH,
// so an Invalidate landing in between aborts the write.
func (c *CatalogCache) SetAll(ctx context.Context, generation int64, items []domain.Anime) error {
	if items == nil {
		items = []domain.Anime{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		gen, err := parseGeneration(cur)
		if err != nil {
			return err
		}
		if gen != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		metrics.CatalogCacheTotal.WithLabelValues("stale").Inc()
		return nil
	case err != nil:
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalog and bumps the generation.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}

// parseGeneration reads the counter; an absent key is generation zero.
func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog cache generation %q: %w", s, err)
	}
	return gen, nil
}
