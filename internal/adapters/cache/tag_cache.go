package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"conduit/internal/domain"
)

const tagListKey = "tags:all"

// TagCacheConfig holds configuration for creating a tag cache.
type TagCacheConfig struct {
	Provider string
	Addr     string
	Password string
	TTL      time.Duration
}

// NewTagCache creates a tag cache from config. Provider "redis" connects and pings the given server; "noop" or unknown uses a cache that always misses.
func NewTagCache(ctx context.Context, config TagCacheConfig) (domain.TagCache, error) {
	switch config.Provider {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return &redisTagCache{client: client, ttl: config.TTL}, nil
	case "noop":
		return &noopTagCache{}, nil
	default:
		log.Printf("[CACHE] Unknown cache provider %q, using noop", config.Provider)
		return &noopTagCache{}, nil
	}
}

type redisTagCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisTagCache) Get(ctx context.Context) ([]string, error) {
	raw, err := c.client.Get(ctx, tagListKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("get %s: %w", tagListKey, err)
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode cached tags: %w", err)
	}
	return tags, nil
}

func (c *redisTagCache) Set(ctx context.Context, tags []string) error {
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	if err := c.client.Set(ctx, tagListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", tagListKey, err)
	}
	return nil
}

func (c *redisTagCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, tagListKey).Err(); err != nil {
		return fmt.Errorf("del %s: %w", tagListKey, err)
	}
	return nil
}

type noopTagCache struct{}

func (c *noopTagCache) Get(ctx context.Context) ([]string, error) {
	return nil, domain.ErrCacheMiss
}

func (c *noopTagCache) Set(ctx context.Context, tags []string) error {
	return nil
}

func (c *noopTagCache) Invalidate(ctx context.Context) error {
	return nil
}
