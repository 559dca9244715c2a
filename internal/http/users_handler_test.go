package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

func TestRegister_Success(t *testing.T) {
	store := repository.NewMemoryUserStore()
	handler := NewUsersHandler(store, 5*time.Second)

	body := `{"name": "Jane Doe", "email": "jane@example.com"}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))

	handler.Register(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response domain.User
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID == "" {
		t.Error("expected a generated user id")
	}
	if response.Role != domain.RoleCustomer {
		t.Errorf("expected role 'customer', got '%s'", response.Role)
	}
	if response.LoyaltyPoints != 0 {
		t.Errorf("new customers start with 0 points, got %d", response.LoyaltyPoints)
	}

	stored, err := store.GetUserByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Name != "Jane Doe" {
		t.Errorf("unexpected stored name: %s", stored.Name)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := repository.NewMemoryUserStore()
	handler := NewUsersHandler(store, 5*time.Second)

	body := `{"name": "Jane Doe", "email": "jane@example.com"}`
	recorder := httptest.NewRecorder()
	handler.Register(recorder, httptest.NewRequest("POST", "/api/users", strings.NewReader(body)))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.Register(recorder, httptest.NewRequest("POST", "/api/users", strings.NewReader(body)))

	if recorder.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, recorder.Code)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"MissingName", `{"email": "jane@example.com"}`},
		{"MissingEmail", `{"name": "Jane"}`},
		{"BadEmail", `{"name": "Jane", "email": "not-an-email"}`},
		{"BadJSON", `{nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUsersHandler(repository.NewMemoryUserStore(), 5*time.Second)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/api/users", strings.NewReader(tt.body))

			handler.Register(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	store := repository.NewMemoryUserStore()
	store.CreateUser(context.Background(), &domain.User{
		ID: "u1", Email: "jane@example.com", Name: "Jane Doe", LoyaltyPoints: 500,
	})
	handler := NewUsersHandler(store, 5*time.Second)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("user_id", "u1")
	request := httptest.NewRequest("GET", "/api/users/u1", nil)
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.Get(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response domain.User
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.LoyaltyPoints != 500 {
		t.Errorf("expected 500 points, got %d", response.LoyaltyPoints)
	}

	rctx = chi.NewRouteContext()
	rctx.URLParams.Add("user_id", "ghost")
	request = httptest.NewRequest("GET", "/api/users/ghost", nil)
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	recorder = httptest.NewRecorder()
	handler.Get(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}
