package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	ctopics "github.com/radieske/trivia-roulette-platform/pkg/contracts/topics"
)

// LeaderboardInvalidator apaga o top cacheado pelo leaderboard-service
type LeaderboardInvalidator struct {
	Client *redis.Client
}

func NewLeaderboardInvalidator(c *redis.Client) *LeaderboardInvalidator {
	return &LeaderboardInvalidator{Client: c}
}

func (l *LeaderboardInvalidator) Invalidate(ctx context.Context) error {
	return l.Client.Del(ctx, ctopics.LeaderboardCacheKey).Err()
}
