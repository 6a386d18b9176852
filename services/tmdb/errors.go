package tmdb

import "fmt"

// UpstreamError carries a non-2xx TMDB response. The raw payload and status
// code are preserved so callers can pass them through to their own clients;
// this client never retries or masks upstream failures.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb upstream error: status %d", e.StatusCode)
}
