package cachestore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is the in-process Store used for development and tests.
// Expired entries are dropped lazily on read and periodically by a
// background sweeper.
type MemoryStore struct {
	mu            sync.RWMutex
	items         map[string]Entry
	stopSweep     chan struct{}
	sweepOnce     sync.Once
	sweepInterval time.Duration
}

// NewMemoryStore creates an in-memory store. If sweepInterval <= 0 a
// default of 5 minutes is used.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}

	s := &MemoryStore{
		items:         make(map[string]Entry),
		stopSweep:     make(chan struct{}),
		sweepInterval: sweepInterval,
	}

	go s.sweepLoop()

	return s
}

func (s *MemoryStore) key(category Category, k string) string {
	return string(category) + ":" + k
}

func (s *MemoryStore) Get(_ context.Context, category Category, key string) (Entry, bool, error) {
	mapKey := s.key(category, key)

	s.mu.RLock()
	entry, ok := s.items[mapKey]
	s.mu.RUnlock()

	if !ok {
		return Entry{}, false, nil
	}

	now := time.Now()
	if entry.Expired(now) {
		s.mu.Lock()
		if e, exists := s.items[mapKey]; exists && e.Expired(now) {
			delete(s.items, mapKey)
		}
		s.mu.Unlock()
		return Entry{}, false, nil
	}

	return entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, category Category, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("non-positive ttl %s", ttl)
	}

	now := time.Now()
	entry := Entry{
		Key:      key,
		Category: category,
		// Copy to decouple from the caller's buffer.
		Payload:   append([]byte(nil), payload...),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		HitCount:  0,
	}

	s.mu.Lock()
	s.items[s.key(category, key)] = entry
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Touch(_ context.Context, category Category, key string) error {
	mapKey := s.key(category, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[mapKey]
	if !ok || entry.Expired(time.Now()) {
		return nil
	}
	entry.HitCount++
	s.items[mapKey] = entry
	return nil
}

func (s *MemoryStore) ListByCategory(_ context.Context, category Category) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []Entry
	for _, entry := range s.items {
		if entry.Category == category {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *MemoryStore) DeleteKey(_ context.Context, category Category, key string) error {
	s.mu.Lock()
	delete(s.items, s.key(category, key))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, category Category) (int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for k, entry := range s.items {
		if entry.Category == category && entry.Expired(now) {
			delete(s.items, k)
			deleted++
		}
	}
	return deleted, nil
}

// sweepLoop periodically removes expired entries across all categories.
func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, entry := range s.items {
				if entry.Expired(now) {
					delete(s.items, k)
				}
			}
			s.mu.Unlock()
		case <-s.stopSweep:
			return
		}
	}
}

// Close stops the sweeper goroutine. Call on shutdown or in tests.
func (s *MemoryStore) Close() error {
	s.sweepOnce.Do(func() {
		close(s.stopSweep)
	})
	return nil
}

// Len returns the number of items currently stored, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
