package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"identitymap/internal/model"
)

// AxesCache handles Redis operations for raw and final axis positions.
// Both are derived caches rebuilt by recalculation, never sources of
// truth.
type AxesCache interface {
	SaveRawAxes(ctx context.Context, userID string, point model.AxisPoint) error
	GetRawAxes(ctx context.Context, userID string) (model.AxisPoint, error)
	GetAllRawAxes(ctx context.Context) ([]model.AxisPoint, error)

	SaveFinalAxes(ctx context.Context, userID string, point model.AxisPoint) error
	GetFinalAxes(ctx context.Context, userID string) (model.AxisPoint, error)
	GetAllFinalAxes(ctx context.Context) ([]model.AxisPoint, error)
}

type axesCache struct {
	client *redis.Client
}

// NewAxesCache creates a new axes cache
func NewAxesCache(client *redis.Client) AxesCache {
	return &axesCache{client: client}
}

func (c *axesCache) rawKey(userID string) string {
	return fmt.Sprintf("user:axes:raw:%s", userID)
}

func (c *axesCache) finalKey(userID string) string {
	return fmt.Sprintf("user:axes:final:%s", userID)
}

func (c *axesCache) SaveRawAxes(ctx context.Context, userID string, point model.AxisPoint) error {
	return c.savePoint(ctx, c.rawKey(userID), point)
}

func (c *axesCache) GetRawAxes(ctx context.Context, userID string) (model.AxisPoint, error) {
	return c.getPoint(ctx, c.rawKey(userID))
}

func (c *axesCache) GetAllRawAxes(ctx context.Context) ([]model.AxisPoint, error) {
	return c.scanPoints(ctx, "user:axes:raw:*")
}

func (c *axesCache) SaveFinalAxes(ctx context.Context, userID string, point model.AxisPoint) error {
	return c.savePoint(ctx, c.finalKey(userID), point)
}

func (c *axesCache) GetFinalAxes(ctx context.Context, userID string) (model.AxisPoint, error) {
	return c.getPoint(ctx, c.finalKey(userID))
}

func (c *axesCache) GetAllFinalAxes(ctx context.Context) ([]model.AxisPoint, error) {
	return c.scanPoints(ctx, "user:axes:final:*")
}

func (c *axesCache) savePoint(ctx context.Context, key string, point model.AxisPoint) error {
	return c.client.HSet(ctx, key, map[string]interface{}{
		"x": point.X,
		"y": point.Y,
	}).Err()
}

// getPoint returns the zero point for users with no stored axes yet
func (c *axesCache) getPoint(ctx context.Context, key string) (model.AxisPoint, error) {
	data, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return model.AxisPoint{}, err
	}
	return parsePoint(data)
}

func (c *axesCache) scanPoints(ctx context.Context, pattern string) ([]model.AxisPoint, error) {
	var points []model.AxisPoint
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := c.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, err
		}
		if _, ok := data["x"]; !ok {
			continue
		}
		point, err := parsePoint(data)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func parsePoint(data map[string]string) (model.AxisPoint, error) {
	var point model.AxisPoint
	if raw, ok := data["x"]; ok {
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return point, err
		}
		point.X = x
	}
	if raw, ok := data["y"]; ok {
		y, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return point, err
		}
		point.Y = y
	}
	return point, nil
}
