package cachestore

import (
	"context"
	"encoding/json"
	"time"
)

// Category partitions the cache namespace. Shipping rates and the four
// geography levels never share keys.
type Category string

const (
	CategoryShippingRate Category = "shipping_rate"
	CategoryProvince     Category = "address_province"
	CategoryCity         Category = "address_city"
	CategoryDistrict     Category = "address_district"
	CategorySubdistrict  Category = "address_subdistrict"
)

// Categories lists every known category, for sweeps across the whole cache.
func Categories() []Category {
	return []Category{
		CategoryShippingRate,
		CategoryProvince,
		CategoryCity,
		CategoryDistrict,
		CategorySubdistrict,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryShippingRate, CategoryProvince, CategoryCity, CategoryDistrict, CategorySubdistrict:
		return true
	}
	return false
}

// Entry is one cached document. Writes are whole-document overwrites;
// there is no partial update path.
type Entry struct {
	Key       string          `json:"key"`
	Category  Category        `json:"category"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	HitCount  int64           `json:"hit_count"`
}

// Expired reports whether the entry must be treated as absent on read.
// An entry expiring exactly at now is already expired.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// Store is a category-scoped TTL cache over a key-value backend. Expiry is a
// read-time predicate: Get treats an expired document as absent whether or
// not it has been physically deleted, and callers cannot distinguish "never
// cached" from "expired".
//
// Get returns (zero, false, err) on backend failure so the caller can log
// and fall through to the authoritative source; the cache is an
// optimization, never a hard dependency.
type Store interface {
	Get(ctx context.Context, category Category, key string) (Entry, bool, error)
	Set(ctx context.Context, category Category, key string, payload []byte, ttl time.Duration) error

	// Touch increments the advisory hit counter. Best effort: races lose
	// updates and that is fine, the counter never drives eviction.
	Touch(ctx context.Context, category Category, key string) error

	ListByCategory(ctx context.Context, category Category) ([]Entry, error)
	DeleteKey(ctx context.Context, category Category, key string) error
	DeleteExpired(ctx context.Context, category Category) (int, error)
}
