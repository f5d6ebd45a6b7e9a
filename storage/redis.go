package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-redis/redis/v8"
)

// Redis stores values as plain Redis strings, under an optional key prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// OpenRedis connects to the server described by u and pings it.
// The "prefix" query parameter is consumed here, everything else is passed to redis.ParseURL.
func OpenRedis(ctx context.Context, u *url.URL) (*Redis, error) {
	q := u.Query()
	prefix := q.Get("prefix")
	q.Del("prefix")
	clean := *u
	clean.RawQuery = q.Encode()

	opts, err := redis.ParseURL(clean.String())
	if err != nil {
		return nil, fmt.Errorf("invalid redis uri: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cannot reach redis at %q: %w", opts.Addr, err)
	}
	return NewRedis(client, prefix), nil
}

func (r *Redis) key(key string) string { return r.prefix + key }

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", r.key(key), err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", r.key(key), err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
