package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

type archiveService interface {
	List(ctx context.Context) ([]domain.ArchivedProfile, error)
	Archive(ctx context.Context, clientName string) (*domain.ArchivedProfile, error)
	Restore(ctx context.Context, archiveID string) error
	PermanentDelete(ctx context.Context, archiveID string) error
}

type operationObserver interface {
	ObserveOperation(operation, outcome string)
}

// ArchiveHandler serves archived profile endpoints.
type ArchiveHandler struct {
	archive archiveService
	metrics operationObserver
	log     *slog.Logger
}

// NewArchiveHandler creates an ArchiveHandler.
func NewArchiveHandler(archive archiveService, metrics operationObserver, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
		metrics: metrics,
		log:     logger.With("handler", "archive"),
	}
}

// List returns archived profiles, newest first.
// GET /api/archives
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.archive.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profiles == nil {
		profiles = []domain.ArchivedProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

type archiveRequest struct {
	ClientName string `json:"client_name"`
}

type archiveResponse struct {
	Archived bool                    `json:"archived"`
	Profile  *domain.ArchivedProfile `json:"profile,omitempty"`
}

// Create archives one client profile. A client with no live requests
// archives nothing and returns archived=false.
// POST /api/archives
func (h *ArchiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.ClientName == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}

	profile, err := h.archive.Archive(r.Context(), req.ClientName)
	if err != nil {
		observeFailure(h.metrics, "archive", err)
		h.log.ErrorContext(r.Context(), "archive client",
			slog.String("client", req.ClientName),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}
	h.metrics.ObserveOperation("archive", "ok")

	if profile == nil {
		writeJSON(w, http.StatusOK, archiveResponse{Archived: false})
		return
	}
	writeJSON(w, http.StatusCreated, archiveResponse{Archived: true, Profile: profile})
}

// Restore recreates an archived profile's records and deletes the snapshot.
// POST /api/archives/{id}/restore
func (h *ArchiveHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.archive.Restore(r.Context(), id); err != nil {
		observeFailure(h.metrics, "restore", err)
		h.log.ErrorContext(r.Context(), "restore archive",
			slog.String("archive_id", id),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}
	h.metrics.ObserveOperation("restore", "ok")

	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// Delete permanently removes a snapshot without restoring it.
// DELETE /api/archives/{id}
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.archive.PermanentDelete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// observeFailure distinguishes a mid-cascade partial failure from an
// outright error in the operation counter.
func observeFailure(m operationObserver, op string, err error) {
	var partial *domain.PartialError
	if errors.As(err, &partial) {
		m.ObserveOperation(op, "partial")
		return
	}
	m.ObserveOperation(op, "error")
}
