package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/archive"
	"github.com/clearpathclaims/inspectdesk/internal/transport/middleware"
)

type directoryService interface {
	ListClients(ctx context.Context) ([]domain.ClientSummary, error)
}

type bulkArchiver interface {
	BulkArchive(ctx context.Context, clientNames []string) ([]archive.BulkResult, error)
}

// DirectoryHandler serves the admin client directory.
type DirectoryHandler struct {
	directory directoryService
	archiver  bulkArchiver
	log       *slog.Logger
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(directory directoryService, archiver bulkArchiver, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		archiver:  archiver,
		log:       logger.With("handler", "directory"),
	}
}

// ListClients returns one summary per distinct client.
// GET /api/admin/clients
func (h *DirectoryHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	clients, err := h.directory.ListClients(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "list clients", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

type bulkArchiveRequest struct {
	Clients []string `json:"clients"`
}

type bulkArchiveResponse struct {
	Results []archive.BulkResult `json:"results"`
}

// BulkArchive archives several client profiles in one call. On a
// mid-batch failure the results archived so far accompany the error body.
// POST /api/admin/clients/archive
func (h *DirectoryHandler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	var req bulkArchiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if len(req.Clients) == 0 {
		writeError(w, http.StatusBadRequest, "clients is required")
		return
	}

	results, err := h.archiver.BulkArchive(r.Context(), req.Clients)
	if err != nil {
		h.log.ErrorContext(r.Context(), "bulk archive", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulkArchiveResponse{Results: results})
}
