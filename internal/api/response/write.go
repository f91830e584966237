package response

import (
	"encoding/json"
	"net/http"
)

// JSON encodes data as the response body.
// Game state changes between requests, so nothing is cacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	header := w.Header()
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	// The status is already sent; an encode failure means the client went away
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent acknowledges a command with no body
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
