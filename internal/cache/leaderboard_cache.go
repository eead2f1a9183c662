package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"wordstake/internal/model"
)

// LeaderboardCache handles Redis ZSET operations for the max-streak leaderboard
type LeaderboardCache interface {
	UpdateStreak(ctx context.Context, walletID string, maxStreak int) error
	GetTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, walletID string) (int64, error)
	Clear(ctx context.Context) error
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key() string {
	return "leaderboard:maxstreak"
}

func (c *leaderboardCache) UpdateStreak(ctx context.Context, walletID string, maxStreak int) error {
	return c.client.ZAdd(ctx, c.key(), redis.Z{
		Score:  float64(maxStreak),
		Member: walletID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = model.LeaderboardEntry{
			WalletID:  z.Member.(string),
			MaxStreak: int(z.Score),
			Rank:      i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, walletID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(), walletID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil // 1-indexed
}

func (c *leaderboardCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key()).Err()
}
