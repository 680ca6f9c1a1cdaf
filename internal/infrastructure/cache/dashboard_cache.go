package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/andresv02/loan-management-system/internal/domain/model"
)

// DashboardKey is the Redis key holding the serialised dashboard.
const DashboardKey = "lending:dashboard"

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// DashboardCache implements port.DashboardCache on Redis with a TTL.
type DashboardCache struct {
	client Client
	ttl    time.Duration
}

// NewDashboardCache creates the cache. A non-positive ttl keeps entries until
// they are invalidated.
func NewDashboardCache(client Client, ttl time.Duration) *DashboardCache {
	if ttl < 0 {
		ttl = 0
	}
	return &DashboardCache{client: client, ttl: ttl}
}

func (c *DashboardCache) Get(ctx context.Context) (model.Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, DashboardKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.Dashboard{}, false, nil
	}
	if err != nil {
		return model.Dashboard{}, false, fmt.Errorf("get dashboard: %w", err)
	}

	var d model.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.Dashboard{}, false, fmt.Errorf("decode dashboard: %w", err)
	}
	return d, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, d model.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, DashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard: %w", err)
	}
	return nil
}

func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, DashboardKey).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	return nil
}
