// Package handler contains the JSON API handlers. Each handler owns one
// collection and broadcasts a sync message over the hub after every
// successful mutation.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func parsePathIDValue(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidation sends the standard 400 body for a failed validation:
// the errors list blocks the save, warnings ride along for display.
func writeValidation(w http.ResponseWriter, errors, warnings []string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":    "validation failed",
		"errors":   errors,
		"warnings": warnings,
	})
}
