package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	ClientKeyKey contextKey = "client_key"

	// UnknownClient is the key shared by every request without a forwarded address.
	UnknownClient = "unknown"
)

// ClientKey stores the rate limit key of the caller in the request context.
func ClientKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ClientKeyKey, clientKey(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientKey is the first X-Forwarded-For address. The header is taken as
// sent; it is not checked against a trusted proxy list.
func clientKey(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	first, _, _ := strings.Cut(xff, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return UnknownClient
}

// GetClientKey retrieves the client key from context.
func GetClientKey(ctx context.Context) string {
	if key, ok := ctx.Value(ClientKeyKey).(string); ok {
		return key
	}
	return UnknownClient
}
