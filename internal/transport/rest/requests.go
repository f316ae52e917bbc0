package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/requests"
)

type requestsService interface {
	List(ctx context.Context, limit int) ([]domain.InspectionRequest, error)
	Get(ctx context.Context, id string) (*domain.InspectionRequest, error)
	Create(ctx context.Context, in requests.CreateInput) (*domain.InspectionRequest, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.InspectionRequest, error)
	SetStatus(ctx context.Context, id, label string) (*domain.InspectionRequest, error)
}

// RequestsHandler serves inspection request endpoints.
type RequestsHandler struct {
	requests requestsService
	validate *validator.Validate
	log      *slog.Logger
}

// NewRequestsHandler creates a RequestsHandler.
func NewRequestsHandler(svc requestsService, logger *slog.Logger) *RequestsHandler {
	return &RequestsHandler{
		requests: svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.With("handler", "requests"),
	}
}

// List returns requests, most recently updated first.
// GET /api/requests?limit=50
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.requests.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.InspectionRequest{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one request.
// GET /api/requests/{id}
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.requests.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create stores a new request.
// POST /api/requests
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in requests.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.requests.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update applies a partial update.
// PATCH /api/requests/{id}
func (h *RequestsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeServiceError(w, err)
		return
	}

	item, err := h.requests.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus changes the request's status label.
// PUT /api/requests/{id}/status
func (h *RequestsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	item, err := h.requests.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
