package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/status"
)

type statusService interface {
	List(ctx context.Context, typ domain.StatusType) ([]domain.StatusOption, error)
	Create(ctx context.Context, in status.CreateInput) (*domain.StatusOption, error)
	UpdateColors(ctx context.Context, id, colorBg, colorText string) (*domain.StatusOption, error)
	UsageCounts(ctx context.Context, typ domain.StatusType) (map[string]int, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, newLabel string) (*domain.StatusOption, error)
}

// StatusHandler serves status registry endpoints.
type StatusHandler struct {
	statuses statusService
	metrics  operationObserver
	log      *slog.Logger
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(statuses statusService, metrics operationObserver, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		statuses: statuses,
		metrics:  metrics,
		log:      logger.With("handler", "status"),
	}
}

// List returns the status options of one type.
// GET /api/statuses?type=inspection
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	typ := domain.StatusType(r.URL.Query().Get("type"))

	options, err := h.statuses.List(r.Context(), typ)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if options == nil {
		options = []domain.StatusOption{}
	}
	writeJSON(w, http.StatusOK, options)
}

type createStatusRequest struct {
	Type      domain.StatusType `json:"type"`
	Label     string            `json:"label"`
	ColorBg   string            `json:"color_bg"`
	ColorText string            `json:"color_text"`
}

// Create adds a status option.
// POST /api/statuses
func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	opt, err := h.statuses.Create(r.Context(), status.CreateInput{
		Type:      req.Type,
		Label:     req.Label,
		ColorBg:   req.ColorBg,
		ColorText: req.ColorText,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, opt)
}

type updateColorsRequest struct {
	ColorBg   string `json:"color_bg"`
	ColorText string `json:"color_text"`
}

// UpdateColors changes a status option's badge colors.
// PUT /api/statuses/{id}/colors
func (h *StatusHandler) UpdateColors(w http.ResponseWriter, r *http.Request) {
	var req updateColorsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	opt, err := h.statuses.UpdateColors(r.Context(), r.PathValue("id"), req.ColorBg, req.ColorText)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opt)
}

// UsageCounts returns live reference counts per status label.
// GET /api/statuses/usage?type=inspection
func (h *StatusHandler) UsageCounts(w http.ResponseWriter, r *http.Request) {
	typ := domain.StatusType(r.URL.Query().Get("type"))

	counts, err := h.statuses.UsageCounts(r.Context(), typ)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// Delete removes an unused status option. A status still referenced by
// live records fails with 409 and the current usage count.
// DELETE /api/statuses/{id}
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.statuses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renameRequest struct {
	Label string `json:"label"`
}

// Rename changes a status label and rewrites every referencing record.
// POST /api/statuses/{id}/rename
func (h *StatusHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	opt, err := h.statuses.Rename(r.Context(), r.PathValue("id"), req.Label)
	if err != nil {
		observeFailure(h.metrics, "rename", err)
		h.log.ErrorContext(r.Context(), "rename status",
			slog.String("status_id", r.PathValue("id")),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}
	h.metrics.ObserveOperation("rename", "ok")

	writeJSON(w, http.StatusOK, opt)
}
