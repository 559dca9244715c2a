package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

type UsersHandler struct {
	users   repository.UserRepository
	timeout time.Duration
}

func NewUsersHandler(users repository.UserRepository, timeout time.Duration) *UsersHandler {
	return &UsersHandler{
		users:   users,
		timeout: timeout,
	}
}

type RegisterRequestDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// POST /api/users
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and a valid email are required")
		return
	}

	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         req.Email,
		Name:          req.Name,
		Role:          domain.RoleCustomer,
		LoyaltyPoints: 0,
		CreatedAt:     time.Now(),
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// GET /api/users/{user_id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.users.GetUser(ctx, chi.URLParam(r, "user_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
