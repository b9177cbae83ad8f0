// Package cache keeps serialized catalog responses (foods, restaurants,
// providers) so list endpoints skip the database on repeat reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"dinedash-server/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client, ttl: ttl}
}

// NewRedisFromClient wraps an existing client, e.g. one dialed at a test server.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return b, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Get(context.Context, string) ([]byte, error) {
	metrics.CacheMisses.WithLabelValues("nop").Inc()
	return nil, ErrMiss
}

func (Nop) Set(context.Context, string, any) error { return nil }
func (Nop) DeleteByPrefix(context.Context, string) error { return nil }
func (Nop) Ping(context.Context) error { return nil }

// Fetch returns the cached value of key decoded into T, or calls load, stores
// its result and returns it. Cache errors never fail the read.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if b, err := c.Get(ctx, key); err == nil {
		var v T
		if json.Unmarshal(b, &v) == nil {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
	return v, nil
}
