// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "crisiscorner/pkg/domain-errors"
)

// Response bodies are fixed per error kind so internals never leak to
// clients.
const (
	msgInvalidInput = "Invalid input."
	msgNotFound     = "Request not found."
	msgUnknown      = "An unknown error occurred."
)

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded error onto its HTTP response. Uncoded errors are
// treated as internal.
func WriteError(w http.ResponseWriter, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest:
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": msgInvalidInput})
	case dErrors.CodeNotFound:
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": msgNotFound})
	default:
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": msgUnknown})
	}
}
