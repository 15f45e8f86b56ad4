package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ScoreCache handles Redis operations for per-question user scores.
// Scores are derived state: the scoring engine rewrites them wholesale
// and they are never authored directly.
type ScoreCache interface {
	SaveUserScores(ctx context.Context, userID string, scores map[string]float64) error
	GetUserScores(ctx context.Context, userID string) (map[string]float64, error)
}

type scoreCache struct {
	client *redis.Client
}

// NewScoreCache creates a new score cache
func NewScoreCache(client *redis.Client) ScoreCache {
	return &scoreCache{client: client}
}

func (c *scoreCache) scoresKey(userID string) string {
	return fmt.Sprintf("user:scores:%s", userID)
}

func (c *scoreCache) SaveUserScores(ctx context.Context, userID string, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(scores))
	for questionID, score := range scores {
		fields[questionID] = score
	}
	return c.client.HSet(ctx, c.scoresKey(userID), fields).Err()
}

func (c *scoreCache) GetUserScores(ctx context.Context, userID string) (map[string]float64, error) {
	raw, err := c.client.HGetAll(ctx, c.scoresKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(raw))
	for questionID, val := range raw {
		score, err := strconv.ParseFloat(val, 64)
		if err != nil {
			continue
		}
		scores[questionID] = score
	}
	return scores, nil
}
