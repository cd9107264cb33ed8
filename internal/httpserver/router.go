package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ongkir-gateway/internal/handlers"
	"ongkir-gateway/internal/metrics"
	"ongkir-gateway/internal/middleware"
)

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Shipping *handlers.ShippingHandler
	Address  *handlers.AddressHandler
	Admin    *handlers.AdminHandler
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, requestTimeout time.Duration, h Handlers) {

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())             // panic recovery
	r.Use(middleware.Timeout(requestTimeout)) // request timeout
	r.Use(middleware.MaxBodySize(64 * 1024))  // 64 KB max body

	// routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/shipping/cost", h.Shipping.Cost)
		r.Get("/address", h.Address.List)
	})

	r.Route("/admin/cache", func(r chi.Router) {
		r.Get("/settings", h.Admin.GetSettings)
		r.Put("/settings", h.Admin.UpdateSettings)
		r.Get("/entries", h.Admin.ListEntries)
		r.Delete("/entries/{key}", h.Admin.DeleteEntry)
		r.Post("/cleanup", h.Admin.Cleanup)
	})

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
