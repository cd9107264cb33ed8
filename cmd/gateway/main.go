package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ongkir-gateway/internal/cachestore"
	"ongkir-gateway/internal/config"
	"ongkir-gateway/internal/handlers"
	"ongkir-gateway/internal/httpserver"
	"ongkir-gateway/internal/komerce"
	"ongkir-gateway/internal/metrics"
	"ongkir-gateway/internal/reference"
	"ongkir-gateway/internal/settings"
	"ongkir-gateway/internal/shipping"
	"ongkir-gateway/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}

func run() error {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", zap.Error(err))
		return err
	}

	logger.Info("loaded config",
		zap.String("port", cfg.Server.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("redis_addr", cfg.Cache.RedisAddr),
		zap.String("upstream_base_url", cfg.Upstream.BaseURL),
		zap.Int("api_keys", len(cfg.Upstream.APIKeys)),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.Cache.RedisAddr),
		)
	}

	// ----- Cache policy -----
	registry, err := settings.NewRegistry(settings.Settings{
		TTLHours:           cfg.Cache.TTLHours,
		MaxAgeDays:         cfg.Cache.MaxAgeDays,
		AutoCleanupExpired: cfg.Cache.AutoCleanup,
	})
	if err != nil {
		logger.Error("invalid cache policy", zap.Error(err))
		return err
	}

	// ----- Cache store -----
	store := cachestore.New(cachestore.Config{
		Backend:       cfg.Cache.Backend,
		Prefix:        cfg.Cache.Prefix,
		MaxAge:        time.Duration(cfg.Cache.MaxAgeDays) * 24 * time.Hour,
		SweepInterval: cfg.Cache.SweepInterval,
	}, redisClient)
	store = cachestore.NewLoggingStore(store)

	// ----- Upstream client -----
	client, err := komerce.NewClient(komerce.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Secrets:        cfg.Upstream.APIKeys,
		AttemptTimeout: cfg.Upstream.AttemptTimeout,
	}, logger)
	if err != nil {
		logger.Error("upstream client init failed", zap.Error(err))
		return err
	}
	defer client.Close()

	// ----- Services -----
	rateService := shipping.NewService(store, client, registry)
	geoService := reference.NewService(store, client)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, cfg.Server.RequestTimeout, httpserver.Handlers{
		Shipping: handlers.NewShippingHandler(rateService),
		Address:  handlers.NewAddressHandler(geoService),
		Admin:    handlers.NewAdminHandler(store, registry),
	})

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
