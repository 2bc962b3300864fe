package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"service_directory/internal/adapters/observability"
)

// Store is a key-value store on Redis. A non-zero ttl makes every write expire,
// which is how session-scoped state is kept.
type Store struct {
	c      *redis.Client
	prefix string
	ttl    time.Duration
}

func New(addr, pass string, db int, prefix string, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix, ttl)
}

func NewWithClient(c *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{c: c, prefix: prefix, ttl: ttl}
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }

func (r *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStorage("redis", "get", "miss")
		return "", false, nil
	}
	if err != nil {
		observability.ObserveStorage("redis", "get", "error")
		return "", false, err
	}
	observability.ObserveStorage("redis", "get", "ok")
	return v, true, nil
}

func (r *Store) Set(ctx context.Context, key, value string) error {
	err := r.c.Set(ctx, r.prefix+key, value, r.ttl).Err()
	observability.ObserveStorage("redis", "set", observability.ResultLabel(err))
	return err
}

func (r *Store) Remove(ctx context.Context, key string) error {
	err := r.c.Del(ctx, r.prefix+key).Err()
	observability.ObserveStorage("redis", "del", observability.ResultLabel(err))
	return err
}
