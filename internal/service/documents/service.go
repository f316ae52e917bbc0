// Package documents implements client-document operations: storing the
// file bytes in the entity service, then recording the document metadata
// against its inspection request.
package documents

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
)

type documentStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.ClientDocument, error)
	Get(ctx context.Context, id string) (*domain.ClientDocument, error)
	Create(ctx context.Context, fields any) (*domain.ClientDocument, error)
	Delete(ctx context.Context, id string) error
}

type requestStore interface {
	Get(ctx context.Context, id string) (*domain.InspectionRequest, error)
}

type fileUploader interface {
	UploadFile(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Service implements document operations.
type Service struct {
	documents documentStore
	requests  requestStore
	files     fileUploader
	log       *slog.Logger
}

// NewService creates a documents service.
func NewService(log *slog.Logger, documents documentStore, requests requestStore, files fileUploader) *Service {
	return &Service{
		documents: documents,
		requests:  requests,
		files:     files,
		log:       log.With("service", "documents"),
	}
}

// UploadInput is the payload for Upload.
type UploadInput struct {
	RequestID        string
	DocumentName     string
	OriginalFilename string
	Category         domain.DocumentCategory
	FileType         string
	FileSize         int64
	File             io.Reader
}

// Upload stores the file bytes and records the document against its
// request. The request must exist; documents never dangle.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*domain.ClientDocument, error) {
	if in.DocumentName == "" {
		return nil, fmt.Errorf("%w: document_name is required", domain.ErrValidation)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown document category %q", domain.ErrValidation, in.Category)
	}
	if _, err := s.requests.Get(ctx, in.RequestID); err != nil {
		return nil, fmt.Errorf("request %s: %w", in.RequestID, err)
	}

	fileURL, err := s.files.UploadFile(ctx, in.OriginalFilename, in.File)
	if err != nil {
		return nil, fmt.Errorf("store file %q: %w", in.OriginalFilename, err)
	}

	doc, err := s.documents.Create(ctx, map[string]any{
		"inspection_request_id": in.RequestID,
		"document_name":         in.DocumentName,
		"original_filename":     in.OriginalFilename,
		"file_url":              fileURL,
		"document_category":     in.Category,
		"file_type":             in.FileType,
		"file_size":             in.FileSize,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "uploaded document",
		slog.String("request_id", in.RequestID),
		slog.String("document", in.DocumentName),
		slog.String("category", string(in.Category)),
	)
	return doc, nil
}

// ListByRequest returns a request's documents, newest first.
func (s *Service) ListByRequest(ctx context.Context, requestID string) ([]domain.ClientDocument, error) {
	docs, err := s.documents.Filter(ctx, entitystore.Where("inspection_request_id", requestID))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	return docs, nil
}

// ListByRequests returns the documents of several requests in one fetch,
// grouped by request ID.
func (s *Service) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]domain.ClientDocument, error) {
	if len(requestIDs) == 0 {
		return map[string][]domain.ClientDocument{}, nil
	}

	docs, err := s.documents.Filter(ctx, entitystore.Predicate{
		"inspection_request_id": entitystore.In(requestIDs),
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.ClientDocument, len(requestIDs))
	for _, d := range docs {
		grouped[d.InspectionRequestID] = append(grouped[d.InspectionRequestID], d)
	}
	return grouped, nil
}

// Delete removes one document record. The stored file is left to the
// entity service's own retention handling.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.documents.Get(ctx, id); err != nil {
		return err
	}
	return s.documents.Delete(ctx, id)
}
