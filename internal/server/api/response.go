// Package api provides the HTTP API handlers for the mudra gesture engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies read by the handlers.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// readErrorStatus maps a body read error to 413 when the body was over
// maxBodyBytes and 400 otherwise.
func readErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
