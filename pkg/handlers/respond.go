// Package handlers holds the shared response helpers for the per-resource
// handler packages.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voyora/wallet-ledger/pkg/api"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, api.Error{Message: message})
}
