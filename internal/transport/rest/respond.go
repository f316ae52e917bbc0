package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusInUseBody is the 409 response for a guarded status delete.
type statusInUseBody struct {
	Error string `json:"error"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// partialBody is the 502 response for a cascade that failed mid-flight.
type partialBody struct {
	Error     string `json:"error"`
	Operation string `json:"operation"`
	Client    string `json:"client"`
	Step      string `json:"step"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
}

// writeServiceError maps domain errors onto HTTP responses. Partial
// cascade failures get a structured body so callers can reconcile.
func writeServiceError(w http.ResponseWriter, err error) {
	var inUse *domain.StatusInUseError
	if errors.As(err, &inUse) {
		writeJSON(w, http.StatusConflict, statusInUseBody{
			Error: inUse.Error(),
			Label: inUse.Label,
			Count: inUse.Count,
		})
		return
	}

	var partial *domain.PartialError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusBadGateway, partialBody{
			Error:     partial.Error(),
			Operation: partial.Op,
			Client:    partial.Client,
			Step:      partial.Step,
			Done:      partial.Done,
			Total:     partial.Total,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}
