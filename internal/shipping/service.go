package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ongkir-gateway/internal/cachestore"
	"ongkir-gateway/internal/komerce"
	"ongkir-gateway/internal/settings"
	"ongkir-gateway/pkg/logging"

	"go.uber.org/zap"
)

// ErrInvalidRequest rejects malformed lookups before any I/O happens.
var ErrInvalidRequest = errors.New("invalid rate request")

// RateRequest is one shipping-cost lookup.
type RateRequest struct {
	Origin      string // carrier-defined region code
	Destination string
	WeightGrams int // actual parcel weight, > 0
	Courier     string // carrier code, e.g. "jne"
}

func (r RateRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if r.WeightGrams <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %d", ErrInvalidRequest, r.WeightGrams)
	}
	if strings.TrimSpace(r.Courier) == "" {
		return fmt.Errorf("%w: courier is required", ErrInvalidRequest)
	}
	return nil
}

// RateResult is the normalized lookup outcome.
type RateResult struct {
	Services []komerce.CostResult
	Cached   bool
	Key      string
}

// RateLookupError wraps a final upstream failure for one cache key. Unwrap
// exposes the upstream kind (komerce.ErrExhausted or komerce.ErrUnavailable).
type RateLookupError struct {
	Key string
	Err error
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("rate lookup failed for %s: %v", e.Key, e.Err)
}

func (e *RateLookupError) Unwrap() error {
	return e.Err
}

// RateClient is the upstream surface the service needs.
type RateClient interface {
	CalculateDomesticCost(ctx context.Context, origin, destination string, weightGrams int, courier string) ([]komerce.CostResult, error)
}

// Service orchestrates one rate lookup: build key, check cache, on miss call
// upstream, normalize, write through, return. Concurrent lookups for the
// same key may each miss and each call upstream; the resulting writes are
// idempotent overwrites of equivalent data, so no locking happens here.
type Service struct {
	store    cachestore.Store
	client   RateClient
	registry *settings.Registry
}

func NewService(store cachestore.Store, client RateClient, registry *settings.Registry) *Service {
	return &Service{
		store:    store,
		client:   client,
		registry: registry,
	}
}

func (s *Service) Lookup(ctx context.Context, req RateRequest) (RateResult, error) {
	if err := req.Validate(); err != nil {
		return RateResult{}, err
	}

	logger := logging.L(ctx)
	start := time.Now()
	key := RateKey(req.Origin, req.Destination, req.WeightGrams, req.Courier)

	entry, hit, err := s.store.Get(ctx, cachestore.CategoryShippingRate, key)
	if err != nil {
		// Cache is best-effort; fall through to the live call.
		logger.Warn("rate cache read failed, treating as miss",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}

	if hit {
		var services []komerce.CostResult
		if err := json.Unmarshal(entry.Payload, &services); err != nil {
			logger.Warn("rate cache payload corrupt, refetching",
				zap.String("cache_key", key),
				zap.Error(err),
			)
		} else {
			if err := s.store.Touch(ctx, cachestore.CategoryShippingRate, key); err != nil {
				logger.Debug("hit counter update failed", zap.String("cache_key", key), zap.Error(err))
			}
			logger.Info("rate_lookup",
				zap.String("cache_key", key),
				zap.Bool("cache_hit", true),
				zap.Duration("total_latency_ms", time.Since(start)),
			)
			return RateResult{Services: services, Cached: true, Key: key}, nil
		}
	}

	// The upstream is quoted with the billable weight, not the raw weight:
	// every request inside one bucket must see one price.
	services, err := s.client.CalculateDomesticCost(ctx, req.Origin, req.Destination, BillableGrams(req.WeightGrams), req.Courier)
	if err != nil {
		return RateResult{}, &RateLookupError{Key: key, Err: err}
	}

	if payload, err := json.Marshal(services); err != nil {
		logger.Warn("marshal rate payload failed", zap.String("cache_key", key), zap.Error(err))
	} else if err := s.store.Set(ctx, cachestore.CategoryShippingRate, key, payload, s.rateTTL()); err != nil {
		// A failed cache write never fails the lookup.
		logger.Warn("rate cache write failed",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}

	logger.Info("rate_lookup",
		zap.String("cache_key", key),
		zap.Bool("cache_hit", false),
		zap.Int("services", len(services)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	return RateResult{Services: services, Cached: false, Key: key}, nil
}

func (s *Service) rateTTL() time.Duration {
	return settings.ClampTTL(s.registry.Snapshot().RateTTL())
}
