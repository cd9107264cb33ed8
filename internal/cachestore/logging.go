package cachestore

import (
	"context"
	"time"

	"ongkir-gateway/internal/metrics"
	"ongkir-gateway/pkg/logging"

	"go.uber.org/zap"
)

// LoggingStore wraps a Store with logging + metrics.
type LoggingStore struct {
	inner Store
}

// NewLoggingStore returns a store that logs and records metrics.
func NewLoggingStore(inner Store) Store {
	return &LoggingStore{inner: inner}
}

func (s *LoggingStore) Get(ctx context.Context, category Category, key string) (Entry, bool, error) {
	start := time.Now()
	entry, ok, err := s.inner.Get(ctx, category, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
		metrics.CacheHitsTotal.WithLabelValues(string(category)).Inc()
	}

	fields := []zap.Field{
		zap.String("category", string(category)),
		zap.String("cache_key", key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Info("cache_get", fields...)
	}

	return entry, ok, err
}

func (s *LoggingStore) Set(ctx context.Context, category Category, key string, payload []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.inner.Set(ctx, category, key, payload, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	fields := []zap.Field{
		zap.String("category", string(category)),
		zap.String("cache_key", key),
		zap.Duration("ttl", ttl),
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Info("cache_set", fields...)
	}

	return err
}

func (s *LoggingStore) Touch(ctx context.Context, category Category, key string) error {
	err := s.inner.Touch(ctx, category, key)
	if err != nil {
		logging.L(ctx).Warn("cache_touch",
			zap.String("category", string(category)),
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
	return err
}

func (s *LoggingStore) ListByCategory(ctx context.Context, category Category) ([]Entry, error) {
	return s.inner.ListByCategory(ctx, category)
}

func (s *LoggingStore) DeleteKey(ctx context.Context, category Category, key string) error {
	err := s.inner.DeleteKey(ctx, category, key)
	logging.L(ctx).Info("cache_delete",
		zap.String("category", string(category)),
		zap.String("cache_key", key),
		zap.Error(err),
	)
	return err
}

func (s *LoggingStore) DeleteExpired(ctx context.Context, category Category) (int, error) {
	count, err := s.inner.DeleteExpired(ctx, category)
	logging.L(ctx).Info("cache_sweep",
		zap.String("category", string(category)),
		zap.Int("deleted", count),
		zap.Error(err),
	)
	return count, err
}
