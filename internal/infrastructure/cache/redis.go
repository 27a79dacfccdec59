// Package cache stores discover results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type ProfileCache struct {
	client redis.UniversalClient
	prefix string
}

func NewProfileCache(client redis.UniversalClient, prefix string) *ProfileCache {
	return &ProfileCache{client: client, prefix: prefix}
}

func (c *ProfileCache) GetProfiles(ctx context.Context, key string) ([]*domain.Profile, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var profiles []*domain.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, false, fmt.Errorf("decode cached profiles: %w", err)
	}
	return profiles, true, nil
}

// DeletePrefix removes every entry whose key starts with prefix. Keys are
// walked with SCAN in batches so large keyspaces do not block the server.
func (c *ProfileCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

func (c *ProfileCache) SetProfiles(ctx context.Context, key string, profiles []*domain.Profile, ttl time.Duration) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
