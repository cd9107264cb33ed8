// Package settings holds the administrator-tunable cache policy. The admin
// surface mutates it at runtime; the lookup services read a snapshot per
// request.
package settings

import (
	"fmt"
	"sync"
	"time"
)

const (
	MinTTLHours = 1        // 1 hour
	MaxTTLHours = 24 * 365 // 1 year

	minAgeDays = 1
	maxAgeDays = 365
)

type Settings struct {
	TTLHours           int  `json:"ttl_hours"`
	MaxAgeDays         int  `json:"max_age_days"`
	AutoCleanupExpired bool `json:"auto_cleanup_expired"`
}

func Default() Settings {
	return Settings{
		TTLHours:           24,
		MaxAgeDays:         60,
		AutoCleanupExpired: true,
	}
}

func (s Settings) Validate() error {
	if s.TTLHours < MinTTLHours || s.TTLHours > MaxTTLHours {
		return fmt.Errorf("ttl_hours must be between %d and %d, got %d", MinTTLHours, MaxTTLHours, s.TTLHours)
	}
	if s.MaxAgeDays < minAgeDays || s.MaxAgeDays > maxAgeDays {
		return fmt.Errorf("max_age_days must be between %d and %d, got %d", minAgeDays, maxAgeDays, s.MaxAgeDays)
	}
	return nil
}

// RateTTL is the shipping-rate cache TTL derived from the settings.
func (s Settings) RateTTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// ClampTTL bounds any requested TTL to the allowed range. Reference-data
// TTLs pass through here too, so nothing ever lives past a year.
func ClampTTL(ttl time.Duration) time.Duration {
	lo := time.Duration(MinTTLHours) * time.Hour
	hi := time.Duration(MaxTTLHours) * time.Hour
	if ttl < lo {
		return lo
	}
	if ttl > hi {
		return hi
	}
	return ttl
}

// Registry is the shared, mutable settings holder.
type Registry struct {
	mu      sync.RWMutex
	current Settings
}

func NewRegistry(initial Settings) (*Registry, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Registry{current: initial}, nil
}

func (r *Registry) Snapshot() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Update replaces the current settings after validation and returns the
// stored value.
func (r *Registry) Update(s Settings) (Settings, error) {
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return s, nil
}
