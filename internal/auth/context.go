// Package auth carries the inbound TMDB bearer credential through request
// context. The credential is forwarded verbatim to TMDB; this service never
// validates or stores it.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is the type used for context keys
type ContextKey string

// ContextKeyBearer is the key for the raw TMDB credential in the context
const ContextKeyBearer ContextKey = "tmdbBearer"

// BearerFromHeader returns the Authorization header value, normalized to the
// "Bearer <token>" form TMDB expects. A bare token gets the prefix added; an
// empty or blank header returns "".
func BearerFromHeader(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return header
	}
	return "Bearer " + header
}

// WithBearer stores the credential on the context.
func WithBearer(ctx context.Context, bearer string) context.Context {
	return context.WithValue(ctx, ContextKeyBearer, bearer)
}

// Bearer retrieves the TMDB credential from the request context.
func Bearer(r *http.Request) string {
	if bearer, ok := r.Context().Value(ContextKeyBearer).(string); ok {
		return bearer
	}
	return ""
}
