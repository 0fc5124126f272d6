package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for cached entries
	entryKeyPrefix = "cache:"
	// Redis key prefix for tag membership sets
	tagKeyPrefix = "cache:tag:"
)

// Redis is a Redis-backed Backend. This is the production implementation for
// distributed deployments where multiple instances must observe each other's
// invalidations.
//
// Tag membership is a SET under tagKeyPrefix. The set carries a TTL slightly
// longer than the longest entry TTL registered under it, so orphaned tag sets
// expire on their own after their members have all lapsed.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed cache backend.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, entryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	pipe := r.client.Pipeline()
	pipe.Set(ctx, entryKeyPrefix+key, value, ttl)
	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag
		pipe.SAdd(ctx, tagKey, key)
		// Extend rather than reset: GT keeps the set alive for its
		// longest-lived member.
		pipe.ExpireGT(ctx, tagKey, ttl+time.Minute)
		pipe.ExpireNX(ctx, tagKey, ttl+time.Minute)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) InvalidateTag(ctx context.Context, tag string) (int, error) {
	tagKey := tagKeyPrefix + tag
	keys, err := r.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, r.client.Del(ctx, tagKey).Err()
	}

	pipe := r.client.Pipeline()
	del := make([]*redis.IntCmd, 0, len(keys))
	for _, key := range keys {
		del = append(del, pipe.Del(ctx, entryKeyPrefix+key))
	}
	pipe.Del(ctx, tagKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	removed := 0
	for _, cmd := range del {
		removed += int(cmd.Val())
	}
	return removed, nil
}
