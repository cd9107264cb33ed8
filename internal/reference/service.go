// Package reference caches administrative geography (provinces, cities,
// districts, subdistricts). Same write-through pattern as shipping rates,
// but with hierarchical keys scoped by parent region and near-permanent
// TTLs: geography practically never changes.
package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ongkir-gateway/internal/cachestore"
	"ongkir-gateway/internal/komerce"
	"ongkir-gateway/internal/settings"
	"ongkir-gateway/pkg/logging"

	"go.uber.org/zap"
)

// Kind is one level of the geography hierarchy.
type Kind string

const (
	KindProvinces    Kind = "provinces"
	KindCities       Kind = "cities"
	KindDistricts    Kind = "districts"
	KindSubdistricts Kind = "subdistricts"
)

// ErrInvalidRequest rejects unknown kinds and missing parent ids before any I/O.
var ErrInvalidRequest = fmt.Errorf("invalid reference request")

func (k Kind) category() (cachestore.Category, error) {
	switch k {
	case KindProvinces:
		return cachestore.CategoryProvince, nil
	case KindCities:
		return cachestore.CategoryCity, nil
	case KindDistricts:
		return cachestore.CategoryDistrict, nil
	case KindSubdistricts:
		return cachestore.CategorySubdistrict, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, k)
}

// CacheKey composes the hierarchical cache key. Provinces are a single
// global list; every other level is scoped by its parent region id.
func CacheKey(kind Kind, parentID string) (string, error) {
	if kind == KindProvinces {
		return "provinces", nil
	}
	if parentID == "" {
		return "", fmt.Errorf("%w: %s require a parent id", ErrInvalidRequest, kind)
	}
	return string(kind) + "_" + parentID, nil
}

// Geography data is close to static, so the TTLs are effectively
// "refresh a few times a year".
var kindTTL = map[Kind]time.Duration{
	KindProvinces:    6 * 30 * 24 * time.Hour,
	KindCities:       30 * 24 * time.Hour,
	KindDistricts:    30 * 24 * time.Hour,
	KindSubdistricts: 30 * 24 * time.Hour,
}

// GeoClient is the upstream surface the service needs.
type GeoClient interface {
	Provinces(ctx context.Context) ([]komerce.Region, error)
	Cities(ctx context.Context, provinceID string) ([]komerce.Region, error)
	Districts(ctx context.Context, cityID string) ([]komerce.Region, error)
	Subdistricts(ctx context.Context, districtID string) ([]komerce.Region, error)
}

type Service struct {
	store  cachestore.Store
	client GeoClient
}

func NewService(store cachestore.Store, client GeoClient) *Service {
	return &Service{store: store, client: client}
}

// Lookup returns the regions for one hierarchy level, the bool reporting
// whether the cache served them.
func (s *Service) Lookup(ctx context.Context, kind Kind, parentID string) ([]komerce.Region, bool, error) {
	category, err := kind.category()
	if err != nil {
		return nil, false, err
	}
	key, err := CacheKey(kind, parentID)
	if err != nil {
		return nil, false, err
	}

	logger := logging.L(ctx)

	entry, hit, err := s.store.Get(ctx, category, key)
	if err != nil {
		logger.Warn("reference cache read failed, treating as miss",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}

	if hit {
		var regions []komerce.Region
		if err := json.Unmarshal(entry.Payload, &regions); err != nil {
			logger.Warn("reference cache payload corrupt, refetching",
				zap.String("cache_key", key),
				zap.Error(err),
			)
		} else {
			if err := s.store.Touch(ctx, category, key); err != nil {
				logger.Debug("hit counter update failed", zap.String("cache_key", key), zap.Error(err))
			}
			return regions, true, nil
		}
	}

	regions, err := s.fetch(ctx, kind, parentID)
	if err != nil {
		return nil, false, fmt.Errorf("reference lookup failed for %s: %w", key, err)
	}

	if payload, err := json.Marshal(regions); err != nil {
		logger.Warn("marshal reference payload failed", zap.String("cache_key", key), zap.Error(err))
	} else if err := s.store.Set(ctx, category, key, payload, settings.ClampTTL(kindTTL[kind])); err != nil {
		logger.Warn("reference cache write failed",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}

	return regions, false, nil
}

func (s *Service) fetch(ctx context.Context, kind Kind, parentID string) ([]komerce.Region, error) {
	switch kind {
	case KindProvinces:
		return s.client.Provinces(ctx)
	case KindCities:
		return s.client.Cities(ctx, parentID)
	case KindDistricts:
		return s.client.Districts(ctx, parentID)
	case KindSubdistricts:
		return s.client.Subdistricts(ctx, parentID)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, kind)
}
