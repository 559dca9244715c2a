package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin_Success(t *testing.T) {
	handler := NewAuthHandler("hunter2", "MAPLE", "op-token-123")

	body := `{"password": "hunter2", "secretCode": "maple"}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))

	handler.Login(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response LoginResponseDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if !response.Success {
		t.Error("expected success")
	}
	if response.Token != "op-token-123" {
		t.Errorf("expected token 'op-token-123', got '%s'", response.Token)
	}
}

func TestLogin_SecretCodeCaseInsensitive(t *testing.T) {
	handler := NewAuthHandler("hunter2", "maple", "op-token-123")

	body := `{"password": "hunter2", "secretCode": "  MaPlE  "}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))

	handler.Login(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"WrongPassword", `{"password": "wrong", "secretCode": "maple"}`},
		{"WrongCode", `{"password": "hunter2", "secretCode": "oak"}`},
		{"Empty", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler("hunter2", "maple", "op-token-123")

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(tt.body))

			handler.Login(recorder, request)

			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("expected %d, got %d", http.StatusUnauthorized, recorder.Code)
			}

			var response LoginResponseDTO
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Success {
				t.Error("expected failure")
			}
			if response.Token != "" {
				t.Error("token must not leak on failed login")
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := AdminOnly("op-token-123")(next)

	tests := []struct {
		name         string
		header       string
		expectedHTTP int
	}{
		{"ValidToken", "Bearer op-token-123", http.StatusOK},
		{"WrongToken", "Bearer nope", http.StatusUnauthorized},
		{"MissingHeader", "", http.StatusUnauthorized},
		{"NotBearer", "Basic op-token-123", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", "/api/orders", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			guarded.ServeHTTP(recorder, request)

			if recorder.Code != tt.expectedHTTP {
				t.Errorf("expected %d, got %d", tt.expectedHTTP, recorder.Code)
			}
		})
	}
}
