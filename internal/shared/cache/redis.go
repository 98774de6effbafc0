package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// Key prefix shared by every key this service writes
const keyPrefix = "streamfeed:"

// Redis wraps a go-redis client with JSON helpers and a run lock
type Redis struct {
	client *redis.Client
}

// New parses a Redis URL (e.g. "redis://host:6379/0") and returns a client.
// Call Ping to verify the connection.
func New(rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, oops.With("context", "failed to parse redis url").Wrap(err)
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

// Ping checks the connection to Redis
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Shutdown closes the client when the injector shuts down
func (r *Redis) Shutdown() error {
	return r.client.Close()
}

// Key namespaces name under the service prefix
func Key(name string) string {
	return keyPrefix + name
}

// Get fetches a key and JSON-unmarshals the value.
// Returns redis.Nil when the key does not exist.
func Get[T any](ctx context.Context, r *Redis, key string) (T, error) {
	var zero T
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, oops.With("key", key, "context", "failed to unmarshal cached value").Wrap(err)
	}
	return v, nil
}

// Set JSON-marshals v and stores it under key. A zero ttl keeps the key
// until overwritten.
func Set(ctx context.Context, r *Redis, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return oops.With("key", key, "context", "failed to marshal cached value").Wrap(err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
