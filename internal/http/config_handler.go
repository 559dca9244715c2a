package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

type ConfigHandler struct {
	config  repository.ConfigStore
	timeout time.Duration
}

func NewConfigHandler(config repository.ConfigStore, timeout time.Duration) *ConfigHandler {
	return &ConfigHandler{
		config:  config,
		timeout: timeout,
	}
}

// GET /api/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cfg, err := h.config.Snapshot(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// PUT /api/config (operator)
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var cfg domain.StorefrontConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if code, msg, ok := validateConfig(cfg); !ok {
		respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	updated, err := h.config.Update(ctx, cfg)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func validateConfig(cfg domain.StorefrontConfig) (code, message string, ok bool) {
	if cfg.Shipping.TaxRate < 0 || cfg.Shipping.TaxRate > 100 {
		return "invalid_tax_rate", "taxRate must be between 0 and 100", false
	}
	if cfg.Shipping.FlatRate < 0 {
		return "invalid_flat_rate", "flatRate must not be negative", false
	}
	if cfg.Shipping.FreeShippingThreshold < 0 {
		return "invalid_threshold", "freeShippingThreshold must not be negative", false
	}
	if cfg.Loyalty.Enabled {
		// pointsToDollarRate is a divisor in settlement
		if cfg.Loyalty.PointsToDollarRate <= 0 {
			return "invalid_redemption_rate", "pointsToDollarRate must be positive when loyalty is enabled", false
		}
		if cfg.Loyalty.PointsPerDollar < 0 {
			return "invalid_earn_rate", "pointsPerDollar must not be negative", false
		}
	}
	return "", "", true
}
