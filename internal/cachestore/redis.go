package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store over Redis used as a plain document store.
// Documents are JSON-encoded Entry values; the logical TTL lives inside the
// document (expires_at) and is checked on read. Redis's own expiration is
// only used as a max-age backstop so abandoned entries cannot pile up
// forever when no sweep runs.
type RedisStore struct {
	client *redis.Client
	prefix string
	maxAge time.Duration
}

type RedisConfig struct {
	Prefix string
	// MaxAge, when > 0, is applied as the physical Redis expiration on every
	// write regardless of the entry's logical TTL.
	MaxAge time.Duration
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(client *redis.Client, config RedisConfig) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		maxAge: config.MaxAge,
	}
}

// key builds the final Redis key: <prefix>:<category>:<key>.
func (s *RedisStore) key(category Category, k string) string {
	if s.prefix == "" {
		return string(category) + ":" + k
	}
	return s.prefix + ":" + string(category) + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, category Category, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, fmt.Errorf("context error: %w", err)
	}

	raw, err := s.client.Get(ctx, s.key(category, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Key does not exist - clean miss.
		return Entry{}, false, nil
	}
	if err != nil {
		// Caller should log and treat as miss.
		return Entry{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}

	// Expired documents stay on disk until a sweep; reads never see them.
	if entry.Expired(time.Now()) {
		return Entry{}, false, nil
	}

	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, category Category, key string, payload []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("non-positive ttl %s", ttl)
	}

	now := time.Now()
	entry := Entry{
		Key:       key,
		Category:  category,
		Payload:   append([]byte(nil), payload...),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		HitCount:  0,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	// Full overwrite of any prior document, last write wins.
	if err := s.client.Set(ctx, s.key(category, key), raw, s.physicalTTL(ttl)).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// physicalTTL picks the backend expiration: the max age backstop, stretched
// when the logical TTL outlives it so Redis never drops a live entry.
func (s *RedisStore) physicalTTL(ttl time.Duration) time.Duration {
	if s.maxAge <= 0 {
		return 0 // keep until swept
	}
	if ttl > s.maxAge {
		return ttl
	}
	return s.maxAge
}

func (s *RedisStore) Touch(ctx context.Context, category Category, key string) error {
	entry, ok, err := s.Get(ctx, category, key)
	if err != nil || !ok {
		return err
	}

	entry.HitCount++
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	// KEEPTTL preserves the physical backstop set on the original write.
	return s.client.Set(ctx, s.key(category, key), raw, redis.KeepTTL).Err()
}

func (s *RedisStore) ListByCategory(ctx context.Context, category Category) ([]Entry, error) {
	pattern := s.key(category, "*")

	var entries []Entry
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // deleted between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}

		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue // skip malformed documents
		}
		entries = append(entries, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return entries, nil
}

func (s *RedisStore) DeleteKey(ctx context.Context, category Category, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return s.client.Del(ctx, s.key(category, key)).Err()
}

func (s *RedisStore) DeleteExpired(ctx context.Context, category Category) (int, error) {
	entries, err := s.ListByCategory(ctx, category)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	deleted := 0
	for _, entry := range entries {
		if !entry.Expired(now) {
			continue
		}
		if err := s.client.Del(ctx, s.key(category, entry.Key)).Err(); err != nil {
			return deleted, fmt.Errorf("redis del failed: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// Ping checks if the Redis connection is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
