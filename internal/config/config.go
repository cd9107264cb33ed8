package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full gateway configuration, loaded from the environment.
// Values that differ between deployments (upstream credentials, redis addr)
// are required or defaulted per variable; everything else has sane defaults.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Upstream UpstreamConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type CacheConfig struct {
	Backend       string        `envconfig:"CACHE_BACKEND" default:"memory"` // "memory" or "redis"
	Prefix        string        `envconfig:"CACHE_PREFIX" default:"ongkir"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"5m"`

	// Administrator-tunable cache policy; these seed the runtime settings
	// registry that the admin endpoints mutate.
	TTLHours    int  `envconfig:"CACHE_TTL_HOURS" default:"24"`
	MaxAgeDays  int  `envconfig:"CACHE_MAX_AGE_DAYS" default:"60"`
	AutoCleanup bool `envconfig:"CACHE_AUTO_CLEANUP" default:"true"`
}

type UpstreamConfig struct {
	BaseURL        string        `envconfig:"KOMERCE_BASE_URL" default:"https://rajaongkir.komerce.id/api/v1"`
	APIKeys        []string      `envconfig:"KOMERCE_API_KEYS" required:"true"`
	AttemptTimeout time.Duration `envconfig:"KOMERCE_ATTEMPT_TIMEOUT" default:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}
