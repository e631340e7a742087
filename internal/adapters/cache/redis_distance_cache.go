// Package cache provides the Redis-backed distance cache adapter, an
// alternative to the Postgres store for deployments that already run Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"smartrouting/internal/domain"
)

const distanceKey = "smartrouting:distance"

// RedisDistanceCache stores one hash field per canonical address pair.
// HSET is atomic per field, which satisfies the upsert contract without a
// read-then-write race.
type RedisDistanceCache struct {
	rdb *redis.Client
}

func NewRedisDistanceCache(rdb *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb}
}

func field(l1, l2 int) string {
	return strconv.Itoa(l1) + ":" + strconv.Itoa(l2)
}

// Get returns every cached entry whose pair is drawn from the given ids.
func (c *RedisDistanceCache) Get(ctx context.Context, ids []int) ([]domain.DistanceCacheEntry, error) {
	if c.rdb == nil {
		return nil, errors.New("redis distance cache: client is nil")
	}
	if len(ids) < 2 {
		return []domain.DistanceCacheEntry{}, nil
	}

	fields := make([]string, 0, len(ids)*(len(ids)-1)/2)
	pairs := make([][2]int, 0, cap(fields))
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			l1, l2 := domain.CanonicalPair(ids[i], ids[j])
			fields = append(fields, field(l1, l2))
			pairs = append(pairs, [2]int{l1, l2})
		}
	}

	vals, err := c.rdb.HMGet(ctx, distanceKey, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make([]domain.DistanceCacheEntry, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: parse field %q: %w", fields[i], err)
		}
		out = append(out, domain.DistanceCacheEntry{
			Loc1:     pairs[i][0],
			Loc2:     pairs[i][1],
			Distance: &d,
		})
	}
	return out, nil
}

// Upsert stores a distance for the canonical pair, overwriting stale values.
func (c *RedisDistanceCache) Upsert(ctx context.Context, loc1, loc2 int, meters float64) error {
	if c.rdb == nil {
		return errors.New("redis distance cache: client is nil")
	}
	l1, l2 := domain.CanonicalPair(loc1, loc2)
	if err := c.rdb.HSet(ctx, distanceKey, field(l1, l2), strconv.FormatFloat(meters, 'f', -1, 64)).Err(); err != nil {
		return fmt.Errorf("upsert distance cache (%d,%d): %w", l1, l2, err)
	}
	return nil
}
