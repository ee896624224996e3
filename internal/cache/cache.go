// AngelaMos | 2026
// cache.go

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin key-value mirror over Redis. Entries carry no TTL
// unless one is configured; they persist until explicitly overwritten
// or deleted by the owning write path.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

func (c *Cache) Set(
	ctx context.Context,
	key, value string,
	ttl time.Duration,
) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}
	return nil
}

// Store is a typed cache-aside wrapper for one entity kind. Values are
// stored JSON-serialized under their entity key.
type Store[T any] struct {
	cache *Cache
	ttl   time.Duration
	admit func(*T) bool
}

type StoreOption[T any] func(*Store[T])

// WithTTL bounds entry lifetime. The zero default keeps entries until
// they are overwritten or invalidated.
func WithTTL[T any](ttl time.Duration) StoreOption[T] {
	return func(s *Store[T]) {
		s.ttl = ttl
	}
}

// WithAdmission gates read-through population: only values passing the
// predicate are cached on a miss. Write-through always populates.
func WithAdmission[T any](admit func(*T) bool) StoreOption[T] {
	return func(s *Store[T]) {
		s.admit = admit
	}
}

func NewStore[T any](c *Cache, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{cache: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) GetOne(
	ctx context.Context,
	key string,
) (*T, bool, error) {
	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// A corrupt entry is treated as a miss; the next write-through
		// replaces it.
		return nil, false, nil
	}

	return &v, true, nil
}

func (s *Store[T]) SetOne(ctx context.Context, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value %q: %w", key, err)
	}
	return s.cache.Set(ctx, key, string(raw), s.ttl)
}

// WriteThrough overwrites the cache entry after a durable write. A
// failed cache write is logged and swallowed: the durable store is the
// source of truth and readers tolerate staleness until the next write.
func (s *Store[T]) WriteThrough(ctx context.Context, key string, v *T) {
	if err := s.SetOne(ctx, key, v); err != nil {
		slog.Warn("cache write-through failed", "key", key, "error", err)
	}
}

// GetOrLoad reads through the cache: a hit is returned as-is, a miss
// loads from the durable store and populates the cache subject to the
// admission policy.
func (s *Store[T]) GetOrLoad(
	ctx context.Context,
	key string,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if v, hit, err := s.GetOne(ctx, key); err == nil && hit {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.admit == nil || s.admit(v) {
		s.WriteThrough(ctx, key, v)
	}

	return v, nil
}

// Invalidate drops aggregate keys whose contents a mutation made
// stale, forcing the next list read to recompute.
func (s *Store[T]) Invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
