package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/optionlab/backend/internal/options"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps engine sentinel errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, options.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, options.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, options.ErrNoMarketData):
		return http.StatusNotFound
	case errors.Is(err, options.ErrUnsupportedHedgeTarget):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON rejects malformed bodies and unknown fields with one helper.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
