package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

func TestWriteServiceError_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad field", domain.ErrValidation), http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"conflict", fmt.Errorf("%w: duplicate", domain.ErrConflict), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteServiceError_StatusInUse(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, &domain.StatusInUseError{Label: "In Progress", Count: 3})

	require.Equal(t, http.StatusConflict, rec.Code)

	var body statusInUseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "In Progress", body.Label)
	assert.Equal(t, 3, body.Count)
}

func TestWriteServiceError_Partial(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, &domain.PartialError{
		Op:     "archive",
		Client: "Jane Smith",
		Step:   "delete tasks",
		Done:   2,
		Total:  5,
		Err:    errors.New("store unavailable"),
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body partialBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "archive", body.Operation)
	assert.Equal(t, "Jane Smith", body.Client)
	assert.Equal(t, "delete tasks", body.Step)
	assert.Equal(t, 2, body.Done)
	assert.Equal(t, 5, body.Total)
}

func TestWriteServiceError_WrappedPartial(t *testing.T) {
	inner := &domain.PartialError{Op: "rename", Client: "Pending", Step: "update records", Done: 1, Total: 4, Err: errors.New("x")}
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("rename: %w", inner))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
