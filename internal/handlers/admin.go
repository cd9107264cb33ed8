package handlers

import (
	"encoding/json"
	"net/http"

	"ongkir-gateway/internal/cachestore"
	"ongkir-gateway/internal/settings"
	"ongkir-gateway/pkg/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler exposes the operational surface: cache policy, entry
// inspection, and cleanup. It talks straight to the store and the
// settings registry.
type AdminHandler struct {
	Store    cachestore.Store
	Settings *settings.Registry
}

func NewAdminHandler(store cachestore.Store, registry *settings.Registry) *AdminHandler {
	return &AdminHandler{Store: store, Settings: registry}
}

// GetSettings handles GET /admin/cache/settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeData(w, false, h.Settings.Snapshot())
}

// UpdateSettings handles PUT /admin/cache/settings. The whole document is
// replaced, so callers send every field.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := logging.L(r.Context())

	var s settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	stored, err := h.Settings.Update(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("cache_settings_updated",
		zap.Int("ttl_hours", stored.TTLHours),
		zap.Int("max_age_days", stored.MaxAgeDays),
		zap.Bool("auto_cleanup_expired", stored.AutoCleanupExpired),
	)
	writeData(w, false, stored)
}

// ListEntries handles GET /admin/cache/entries?category=.
func (h *AdminHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.ListByCategory(r.Context(), category)
	if err != nil {
		logging.L(r.Context()).Error("list cache entries failed",
			zap.String("category", string(category)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache listing failed")
		return
	}
	if entries == nil {
		entries = []cachestore.Entry{}
	}
	writeData(w, false, entries)
}

// DeleteEntry handles DELETE /admin/cache/entries/{key}?category=.
func (h *AdminHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.Store.DeleteKey(r.Context(), category, key); err != nil {
		logging.L(r.Context()).Error("delete cache entry failed",
			zap.String("category", string(category)), zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache delete failed")
		return
	}
	writeData(w, false, map[string]string{"deleted": key})
}

// Cleanup handles POST /admin/cache/cleanup?category=. Without a category
// it sweeps every category. Cleanup is a no-op when the policy has
// auto_cleanup_expired disabled.
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)

	if !h.Settings.Snapshot().AutoCleanupExpired {
		writeData(w, false, map[string]interface{}{"removed": 0, "skipped": "auto_cleanup_expired is disabled"})
		return
	}

	categories := cachestore.Categories()
	if raw := r.URL.Query().Get("category"); raw != "" {
		category := cachestore.Category(raw)
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "unknown category "+raw)
			return
		}
		categories = []cachestore.Category{category}
	}

	removed := 0
	for _, category := range categories {
		n, err := h.Store.DeleteExpired(ctx, category)
		if err != nil {
			logger.Error("cleanup failed",
				zap.String("category", string(category)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "cache cleanup failed")
			return
		}
		removed += n
	}

	logger.Info("cache_cleanup", zap.Int("removed", removed))
	writeData(w, false, map[string]int{"removed": removed})
}

func (h *AdminHandler) category(w http.ResponseWriter, r *http.Request) (cachestore.Category, bool) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "category query parameter is required")
		return "", false
	}
	category := cachestore.Category(raw)
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category "+raw)
		return "", false
	}
	return category, true
}
