package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ZoneCache holds the approved zones that carry coordinates, so proximity
// checks don't hit Postgres on every position update. A nil, nil return
// means cache miss.
type ZoneCache struct {
	client *goredis.Client
	key    string
}

func NewZoneCache(r *Redis) *ZoneCache {
	return &ZoneCache{
		client: r.Client,
		key:    "zones:active",
	}
}

func (c *ZoneCache) GetActive(ctx context.Context) ([]*domain.Zone, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var zones []*domain.Zone
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, err
	}

	return zones, nil
}

func (c *ZoneCache) SetActive(ctx context.Context, zones []*domain.Zone, ttl time.Duration) error {
	b, err := json.Marshal(zones)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, ttl).Err()
}

// Invalidate drops the cached set. Called after any zone transition that
// changes the approved population.
func (c *ZoneCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
