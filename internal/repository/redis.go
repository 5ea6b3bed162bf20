package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to addr, which may be a host:port pair or a redis:// URL.
func InitRedis(addr string, password string, db int) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

const cacheKeyPrefix = "url:"

// URLCache keeps short code -> original URL pairs for the redirect path.
// A nil client turns every call into a miss/no-op.
type URLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewURLCache(rdb *redis.Client, ttl time.Duration) *URLCache {
	return &URLCache{rdb: rdb, ttl: ttl}
}

func (c *URLCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get reports a miss (false, nil) when the key is absent.
func (c *URLCache) Get(ctx context.Context, code string) (string, bool, error) {
	if !c.Enabled() {
		return "", false, nil
	}
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *URLCache) Set(ctx context.Context, code, originalURL string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+code, originalURL, c.ttl).Err()
}

func (c *URLCache) Invalidate(ctx context.Context, code string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, cacheKeyPrefix+code).Err()
}

func (c *URLCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
