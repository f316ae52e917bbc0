package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/documents"
)

// Uploaded files are buffered to this many bytes in memory before
// spilling to disk.
const maxUploadMemory = 16 << 20

type documentsService interface {
	Upload(ctx context.Context, in documents.UploadInput) (*domain.ClientDocument, error)
	ListByRequest(ctx context.Context, requestID string) ([]domain.ClientDocument, error)
	Delete(ctx context.Context, id string) error
}

// DocumentsHandler serves client document endpoints.
type DocumentsHandler struct {
	documents documentsService
	log       *slog.Logger
}

// NewDocumentsHandler creates a DocumentsHandler.
func NewDocumentsHandler(svc documentsService, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		documents: svc,
		log:       logger.With("handler", "documents"),
	}
}

// Upload stores a file and records it against the request. Multipart form
// fields: file, document_name, category.
// POST /api/requests/{id}/documents
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := r.FormValue("document_name")
	if name == "" {
		name = header.Filename
	}

	doc, err := h.documents.Upload(r.Context(), documents.UploadInput{
		RequestID:        r.PathValue("id"),
		DocumentName:     name,
		OriginalFilename: header.Filename,
		Category:         domain.DocumentCategory(r.FormValue("category")),
		FileType:         header.Header.Get("Content-Type"),
		FileSize:         header.Size,
		File:             file,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "upload document",
			slog.String("request_id", r.PathValue("id")),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// ListByRequest returns a request's documents, newest first.
// GET /api/requests/{id}/documents
func (h *DocumentsHandler) ListByRequest(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListByRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.ClientDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Delete removes one document record.
// DELETE /api/documents/{id}
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
