package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StatsCache maintains the running vote tallies per question, keyed by
// "option:<value>" or "combo:<sorted,items>". Tallies track the current
// answer set: an overwrite decrements the old key before incrementing
// the new one.
type StatsCache interface {
	Increment(ctx context.Context, questionID, tallyKey string) error
	Decrement(ctx context.Context, questionID, tallyKey string) error
	GetQuestionStats(ctx context.Context, questionID string) (map[string]int64, error)
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) statsKey(questionID string) string {
	return fmt.Sprintf("question:stats:%s", questionID)
}

func (c *statsCache) Increment(ctx context.Context, questionID, tallyKey string) error {
	return c.client.HIncrBy(ctx, c.statsKey(questionID), tallyKey, 1).Err()
}

func (c *statsCache) Decrement(ctx context.Context, questionID, tallyKey string) error {
	key := c.statsKey(questionID)
	count, err := c.client.HIncrBy(ctx, key, tallyKey, -1).Result()
	if err != nil {
		return err
	}
	// Drop exhausted fields so the tally map only lists keys with votes
	if count <= 0 {
		return c.client.HDel(ctx, key, tallyKey).Err()
	}
	return nil
}

func (c *statsCache) GetQuestionStats(ctx context.Context, questionID string) (map[string]int64, error) {
	raw, err := c.client.HGetAll(ctx, c.statsKey(questionID)).Result()
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(raw))
	for key, val := range raw {
		count, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		stats[key] = count
	}
	return stats, nil
}
