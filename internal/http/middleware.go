package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AdminOnly guards operator routes with the configured bearer token. The
// storefront uses a single static operator token issued by the login
// endpoint.
func AdminOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			provided, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid operator token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware echoes the caller's X-Request-ID, generating one when
// absent, so every response can be correlated with the request log line.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
