package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = time.Minute
	countsCacheKey  = "impromptu:question_counts"
)

// Cache keeps per-level counts in Redis so the public page's level picker
// does not hit Postgres on every render.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CountsCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context) (map[Level]int64, error) {
	data, err := c.client.Get(ctx, countsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var counts map[Level]int64
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *Cache) Set(ctx context.Context, counts map[Level]int64) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countsCacheKey, data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, countsCacheKey).Err()
}
