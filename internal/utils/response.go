package utils

import (
	"encoding/json"
	"net/http"

	"rail-ticketing/internal/models"
)

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError emits the {"error": message} body every failure path uses.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// ErrorStatus maps domain errors onto HTTP status codes: missing records are
// 404, bad input is 400, an exhausted route is 409, everything else
// (storage faults included) is 500.
func ErrorStatus(err error) int {
	switch {
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsConflict(err):
		return http.StatusBadRequest
	case models.IsExhausted(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
