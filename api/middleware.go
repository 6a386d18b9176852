package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cinevault/internal/auth"
)

// BearerMiddleware lifts the inbound Authorization header into request
// context so handlers and services receive the credential without touching
// the raw request. The header is forwarded to TMDB verbatim; requests
// without one still proceed — endpoints that need a credential answer 401
// themselves.
func BearerMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := auth.BearerFromHeader(r)
			if bearer != "" {
				r = r.WithContext(auth.WithBearer(r.Context(), bearer))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with a generated request id, the response
// status, and the handling duration.
func RequestLogger() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			log.Printf("[http] %s %s %s status=%d duration=%s", requestID[:8], r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
		})
	}
}
