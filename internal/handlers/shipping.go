package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ongkir-gateway/internal/shipping"
	"ongkir-gateway/pkg/logging"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RateLookup is the slice of the shipping service the handler needs.
type RateLookup interface {
	Lookup(ctx context.Context, req shipping.RateRequest) (shipping.RateResult, error)
}

// ShippingHandler serves POST /api/shipping/cost.
type ShippingHandler struct {
	Rates    RateLookup
	validate *validator.Validate
}

func NewShippingHandler(rates RateLookup) *ShippingHandler {
	return &ShippingHandler{
		Rates:    rates,
		validate: validator.New(),
	}
}

type costRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Weight      int    `json:"weight" validate:"required,gt=0"`
	Courier     string `json:"courier" validate:"required"`
}

// Cost resolves shipping options for an origin/destination/weight/courier
// tuple, serving from cache when a fresh entry exists.
func (h *ShippingHandler) Cost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req costRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("request validation failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "origin, destination, courier and a positive weight are required")
		return
	}

	result, err := h.Rates.Lookup(ctx, shipping.RateRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		WeightGrams: req.Weight,
		Courier:     req.Courier,
	})
	if err != nil {
		if errors.Is(err, shipping.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("rate lookup failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "shipping cost unavailable")
		return
	}

	logger.Debug("cost request served",
		zap.String("cache_key", result.Key),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeData(w, result.Cached, result.Services)
}
