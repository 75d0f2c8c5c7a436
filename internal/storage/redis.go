package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis is a KV implementation backed by a Redis instance.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis connects to the Redis instance at the given URL and verifies the
// connection with a ping before returning the store.
func NewRedis(ctx context.Context, url, namespace string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return &Redis{client: client, namespace: namespace}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, namespaced(r.namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get key from redis")
	}
	return value, nil
}

// Put stores value under key without expiry.
func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(r.client.Set(ctx, namespaced(r.namespace, key), value, 0).Err(), "failed to set key in redis")
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return errors.Wrap(r.client.Del(ctx, namespaced(r.namespace, key)).Err(), "failed to delete key from redis")
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
