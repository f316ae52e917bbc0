// Package requests implements inspection-request CRUD around the archive
// core. Requests are never deleted directly; a profile leaves the live
// store only through the archive engine.
package requests

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
)

type requestStore interface {
	List(ctx context.Context, sort string, limit int) ([]domain.InspectionRequest, error)
	Get(ctx context.Context, id string) (*domain.InspectionRequest, error)
	Create(ctx context.Context, fields any) (*domain.InspectionRequest, error)
	Update(ctx context.Context, id string, fields any) (*domain.InspectionRequest, error)
}

type statusStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.StatusOption, error)
}

// Service implements inspection-request operations.
type Service struct {
	requests requestStore
	statuses statusStore
	log      *slog.Logger
}

// NewService creates a requests service.
func NewService(log *slog.Logger, requests requestStore, statuses statusStore) *Service {
	return &Service{
		requests: requests,
		statuses: statuses,
		log:      log.With("service", "requests"),
	}
}

// List returns requests, most recently updated first.
func (s *Service) List(ctx context.Context, limit int) ([]domain.InspectionRequest, error) {
	return s.requests.List(ctx, "-updated_date", limit)
}

// Get returns one request by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.InspectionRequest, error) {
	return s.requests.Get(ctx, id)
}

// CreateInput is the payload for Create.
type CreateInput struct {
	ClientName          string `json:"client_name"           validate:"required"`
	PropertyAddress     string `json:"property_address"      validate:"required"`
	ClientContactNumber string `json:"client_contact_number"`
	AgentContactNumber  string `json:"agent_contact_number"`
	Memo                string `json:"memo"`
	Urgent              bool   `json:"urgent"`
	ClaimNumber         string `json:"claim_number"`
	Carrier             string `json:"carrier"`
	Status              string `json:"status"`
	CompanyCamURL       string `json:"companycam_url"`
}

// Create stores a new request. An empty status defaults to the first
// defined inspection status, when one exists.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.InspectionRequest, error) {
	if in.ClientName == "" {
		return nil, fmt.Errorf("%w: client_name is required", domain.ErrValidation)
	}
	if in.PropertyAddress == "" {
		return nil, fmt.Errorf("%w: property_address is required", domain.ErrValidation)
	}

	if in.Status == "" {
		options, err := s.statuses.Filter(ctx, entitystore.Where("type", domain.StatusTypeInspection))
		if err != nil {
			return nil, fmt.Errorf("default status: %w", err)
		}
		if len(options) > 0 {
			in.Status = options[0].Label
		}
	}

	return s.requests.Create(ctx, in)
}

// Update applies a partial update. Store-managed fields and client_name
// are not editable; moving a request between clients is not supported.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (*domain.InspectionRequest, error) {
	delete(fields, "id")
	delete(fields, "created_date")
	delete(fields, "updated_date")
	delete(fields, "created_by")
	delete(fields, "client_name")

	return s.requests.Update(ctx, id, fields)
}

// SetStatus changes the request's status label.
func (s *Service) SetStatus(ctx context.Context, id, label string) (*domain.InspectionRequest, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}
	return s.requests.Update(ctx, id, map[string]any{"status": label})
}

// Touch bumps the request's updated_date without changing any field, so
// the request surfaces at the top of recency-sorted listings.
func (s *Service) Touch(ctx context.Context, id string) error {
	if _, err := s.requests.Update(ctx, id, map[string]any{}); err != nil {
		return fmt.Errorf("touch request %s: %w", id, err)
	}
	return nil
}
