package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ongkir-gateway/internal/komerce"
	"ongkir-gateway/internal/reference"
	"ongkir-gateway/pkg/logging"

	"go.uber.org/zap"
)

// GeoLookup is the slice of the reference service the handler needs.
type GeoLookup interface {
	Lookup(ctx context.Context, kind reference.Kind, parentID string) ([]komerce.Region, bool, error)
}

// AddressHandler serves GET /api/address. The type query parameter picks
// the hierarchy level; each level below provinces names its parent via
// its own query parameter.
type AddressHandler struct {
	Geo GeoLookup
}

func NewAddressHandler(geo GeoLookup) *AddressHandler {
	return &AddressHandler{Geo: geo}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	q := r.URL.Query()
	var kind reference.Kind
	var parentID string
	switch q.Get("type") {
	case "province", "provinces":
		kind = reference.KindProvinces
	case "city", "cities":
		kind = reference.KindCities
		parentID = q.Get("provinceId")
	case "district", "districts":
		kind = reference.KindDistricts
		parentID = q.Get("cityId")
	case "subdistrict", "subdistricts":
		kind = reference.KindSubdistricts
		parentID = q.Get("districtId")
	default:
		writeError(w, http.StatusBadRequest, "type must be one of province, city, district, subdistrict")
		return
	}

	regions, cached, err := h.Geo.Lookup(ctx, kind, parentID)
	if err != nil {
		if errors.Is(err, reference.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("address lookup failed", zap.String("kind", string(kind)), zap.Error(err))
		writeError(w, http.StatusBadGateway, "address data unavailable")
		return
	}

	logger.Info("address_lookup",
		zap.String("kind", string(kind)),
		zap.String("parent_id", parentID),
		zap.Bool("cache_hit", cached),
		zap.Int("regions", len(regions)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeData(w, cached, regions)
}
