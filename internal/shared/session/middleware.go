package session

import (
	"context"
	"net/http"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const storeKey contextKey = "sessionStore"

func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// FromContext returns the request's Store, or an anonymous one when the middleware did not run.
func FromContext(ctx context.Context) *Store {
	if store, ok := ctx.Value(storeKey).(*Store); ok {
		return store
	}
	return NewStore(NewMemoryStorage())
}

// Middleware opens the browser's storage for every request and injects a Store into its context.
func Middleware(backend Backend) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := NewStore(backend.Open(w, r))
			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
		})
	}
}
