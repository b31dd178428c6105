package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"rail-ticketing/internal/models"
)

const routesKey = "cache:routes"

// RedisCache caches the route listing for a short TTL. Any route or seat
// mutation invalidates it, so readers never see a stale seat count longer
// than one TTL window.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetRoutes(ctx context.Context) ([]models.Route, error) {
	data, err := c.client.Get(ctx, routesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []models.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, routes []models.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey, payload, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, routesKey).Err()
}
