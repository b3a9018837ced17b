package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// requestIDKey is the context key under which the request id is stored.
const requestIDKey contextKey = "request_id"

// RequestID returns middleware that tags every request with an id, honoring a
// caller-supplied X-Request-ID and generating a UUID otherwise. The id is
// echoed in the response header and stored in the request context for the
// logging middleware.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", id)
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request id set by RequestID, or "" when
// the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
