// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeErrorCode(w, http.StatusBadRequest, err.Error())
}

func writeNotFound(w http.ResponseWriter) {
	writeErrorCode(w, http.StatusNotFound, "not found")
}

// writeConflict tells the client a run is already active.
func writeConflict(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "30")
	writeJSON(w, http.StatusConflict, map[string]string{
		"error":  "conflict",
		"detail": "a sync run is already in progress",
	})
}
