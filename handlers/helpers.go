package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinevault/services/tmdb"
)

// Error messages mirrored from the API contract.
const (
	msgAccountIDRequired      = "'account_id' is required."
	msgListNameRequired       = "'list_name' is required."
	msgAccountAndListRequired = "account_id and list_name are required."
	msgQueryRequired          = "'query' is required."
	msgUnauthorized           = "Missing TMDb Authorization token."
	msgListNameInUse          = "This list_name is already in use."
	msgSharedListNotFound     = "No shared list found with this name."
	msgUpstreamError          = "Upstream TMDb error."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstream maps an error from the TMDB client to a response. Upstream
// non-2xx payloads are passed through with their original status; transport
// failures become a 502.
func writeUpstream(w http.ResponseWriter, err error) {
	var upstream *tmdb.UpstreamError
	if errors.As(err, &upstream) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(upstream.StatusCode)
		if len(upstream.Body) > 0 {
			w.Write(upstream.Body)
		} else {
			json.NewEncoder(w).Encode(map[string]string{"error": msgUpstreamError})
		}
		return
	}
	writeError(w, http.StatusBadGateway, msgUpstreamError)
}
