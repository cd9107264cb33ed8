package cachestore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()

	ctx := context.Background()
	val := []byte(`{"cost":18000}`)

	if err := s.Set(ctx, CategoryShippingRate, "607_114_1000_jne", val, 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, hit, err := s.Get(ctx, CategoryShippingRate, "607_114_1000_jne")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit immediately after Set")
	}
	if string(entry.Payload) != `{"cost":18000}` {
		t.Fatalf("unexpected payload: %s", entry.Payload)
	}
	if !entry.ExpiresAt.After(entry.CreatedAt) {
		t.Fatalf("expires_at must be after created_at: %#v", entry)
	}

	// Wait for TTL to expire
	time.Sleep(30 * time.Millisecond)

	_, hit, err = s.Get(ctx, CategoryShippingRate, "607_114_1000_jne")
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryStoreExpiryBoundary(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	// An entry whose expiry is one millisecond in the past must read as absent
	// even though the document is still physically present.
	now := time.Now()
	s.mu.Lock()
	s.items[s.key(CategoryShippingRate, "stale")] = Entry{
		Key:       "stale",
		Category:  CategoryShippingRate,
		Payload:   []byte(`[]`),
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(-time.Millisecond),
	}
	s.mu.Unlock()

	_, hit, err := s.Get(context.Background(), CategoryShippingRate, "stale")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Fatalf("entry expired 1ms ago must be treated as absent")
	}
}

func TestMemoryStoreRejectsNonPositiveTTL(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	if err := s.Set(context.Background(), CategoryProvince, "provinces", []byte(`[]`), 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestMemoryStoreTouch(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, CategoryShippingRate, "k", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Touch(ctx, CategoryShippingRate, "k"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	entry, hit, _ := s.Get(ctx, CategoryShippingRate, "k")
	if !hit {
		t.Fatalf("expected hit")
	}
	if entry.HitCount != 3 {
		t.Fatalf("expected hit_count 3, got %d", entry.HitCount)
	}

	// Touching a missing key is a no-op, not an error.
	if err := s.Touch(ctx, CategoryShippingRate, "missing"); err != nil {
		t.Fatalf("Touch on missing key: %v", err)
	}
}

func TestMemoryStoreListAndDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, CategoryCity, "cities_11", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, CategoryCity, "cities_12", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, CategoryProvince, "provinces", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cities, err := s.ListByCategory(ctx, CategoryCity)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 city entries, got %d", len(cities))
	}

	if err := s.DeleteKey(ctx, CategoryCity, "cities_11"); err != nil {
		t.Fatalf("DeleteKey failed: %v", err)
	}
	if _, hit, _ := s.Get(ctx, CategoryCity, "cities_11"); hit {
		t.Fatalf("deleted key must be absent")
	}
	if _, hit, _ := s.Get(ctx, CategoryProvince, "provinces"); !hit {
		t.Fatalf("other categories must be untouched")
	}
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	ctx := context.Background()
	now := time.Now()

	s.mu.Lock()
	s.items[s.key(CategoryShippingRate, "old1")] = Entry{Key: "old1", Category: CategoryShippingRate, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	s.items[s.key(CategoryShippingRate, "old2")] = Entry{Key: "old2", Category: CategoryShippingRate, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Minute)}
	s.mu.Unlock()

	if err := s.Set(ctx, CategoryShippingRate, "fresh", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	deleted, err := s.DeleteExpired(ctx, CategoryShippingRate)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d", deleted)
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the fresh entry to remain, have %d", s.Len())
	}
}
