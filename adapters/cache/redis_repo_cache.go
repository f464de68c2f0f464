package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/devconnect/internal/application/service"
)

const repoKeyPrefix = "github:repos:"

type redisRepoCache struct {
	rdb *redis.Client
}

func NewRedisRepoCache(rdb *redis.Client) service.RepoCache {
	return &redisRepoCache{rdb: rdb}
}

// GitHub logins are case-insensitive.
func repoKey(username string) string {
	return repoKeyPrefix + strings.ToLower(username)
}

func (c *redisRepoCache) Get(ctx context.Context, username string) (json.RawMessage, bool, error) {
	val, err := c.rdb.Get(ctx, repoKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get repos: %w", err)
	}
	return json.RawMessage(val), true, nil
}

func (c *redisRepoCache) Set(ctx context.Context, username string, repos json.RawMessage, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, repoKey(username), []byte(repos), ttl).Err(); err != nil {
		return fmt.Errorf("redis set repos: %w", err)
	}
	return nil
}

func (c *redisRepoCache) Delete(ctx context.Context, username string) error {
	if err := c.rdb.Del(ctx, repoKey(username)).Err(); err != nil {
		return fmt.Errorf("redis del repos: %w", err)
	}
	return nil
}
