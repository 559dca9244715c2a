package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// AuthHandler is thin glue: the storefront has a single operator login with
// a password plus a secret code, trading a static bearer token. Checkout
// itself never touches authentication.
type AuthHandler struct {
	password   string
	secretCode string
	token      string
}

func NewAuthHandler(password, secretCode, token string) *AuthHandler {
	return &AuthHandler{
		password:   password,
		secretCode: secretCode,
		token:      token,
	}
}

type LoginRequestDTO struct {
	Password   string `json:"password"`
	SecretCode string `json:"secretCode"`
}

type LoginResponseDTO struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	password := strings.TrimSpace(req.Password)
	// secret code is case-insensitive
	code := strings.ToLower(strings.TrimSpace(req.SecretCode))

	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
	codeOK := subtle.ConstantTimeCompare([]byte(code), []byte(strings.ToLower(h.secretCode))) == 1
	if !passOK || !codeOK {
		respondJSON(w, http.StatusUnauthorized, LoginResponseDTO{
			Success: false,
			Message: "invalid credentials",
		})
		return
	}

	respondJSON(w, http.StatusOK, LoginResponseDTO{
		Success: true,
		Token:   h.token,
	})
}
