package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aetherstore/storefront/internal/ledger"
	"github.com/aetherstore/storefront/internal/repository"
)

type LoyaltyHandler struct {
	ledger  *ledger.Service
	users   repository.UserRepository
	timeout time.Duration
}

func NewLoyaltyHandler(ledgerSvc *ledger.Service, users repository.UserRepository, timeout time.Duration) *LoyaltyHandler {
	return &LoyaltyHandler{
		ledger:  ledgerSvc,
		users:   users,
		timeout: timeout,
	}
}

// GET /api/loyalty/ledger?userId=... (operator; userId optional)
func (h *LoyaltyHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entries, err := h.ledger.History(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

// GET /api/loyalty/reconcile/{user_id} (operator)
func (h *LoyaltyHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.ledger.Reconcile(ctx, h.users, chi.URLParam(r, "user_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
