package middleware

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"
)

// Auth guards every route behind a shared static key, accepted either as
// "Authorization: Bearer <key>" or in the X-API-Key header. An empty key
// disables the check entirely.
func Auth(apiKey string) func(http.Handler) http.Handler {
	expect := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expect) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Constant-time comparison; a missing key compares as empty and
			// fails the same way a wrong one does.
			got := []byte(requestKey(r))
			if subtle.ConstantTimeCompare(got, expect) != 1 {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"error":"unauthorized"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestKey extracts the presented API key, preferring the explicit header
// over the Bearer scheme.
func requestKey(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-API-Key")); v != "" {
		return v
	}
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok {
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
