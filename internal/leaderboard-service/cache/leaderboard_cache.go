package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	ctopics "github.com/radieske/trivia-roulette-platform/pkg/contracts/topics"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) GetTop(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, ctopics.LeaderboardCacheKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetTop(ctx context.Context, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, ctopics.LeaderboardCacheKey, b, ttl).Err()
}
