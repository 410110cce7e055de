package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-listing-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "estate:render:"

// RenderCache shares rendered descriptions between service instances.
type RenderCache struct {
	rdb *redis.Client
}

func NewRenderCache(rdb *redis.Client) contract.RenderCache {
	return &RenderCache{rdb: rdb}
}

func (r *RenderCache) Get(ctx context.Context, key string) (string, bool, error) {
	html, err := r.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return html, true, nil
}

func (r *RenderCache) Set(ctx context.Context, key, html string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, keyPrefix+key, html, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes every key starting with prefix.
func (r *RenderCache) Delete(ctx context.Context, prefix string) error {
	iter := r.rdb.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", prefix, err)
	}
	return nil
}

// NewClient parses url, falling back to a plain address, and pings the
// server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return rdb, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
