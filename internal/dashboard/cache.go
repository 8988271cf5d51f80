package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "dashboard:version"

// Cache keeps the latest snapshot in Redis under a versioned key so a
// bump invalidates every cached copy at once. A nil cache or a failing
// Redis degrades to direct aggregation.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(ctx context.Context) (string, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("dashboard:snapshot:%d", ver), nil
}

// Get loads the cached snapshot, reporting whether one was present.
func (c *Cache) Get(ctx context.Context) (Snapshot, bool, error) {
	if c == nil || c.client == nil {
		return Snapshot{}, false, nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return Snapshot{}, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// Set stores the snapshot under the current version with the cache TTL.
func (c *Cache) Set(ctx context.Context, snap Snapshot) error {
	if c == nil || c.client == nil {
		return nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bump invalidates all cached snapshots by advancing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
