package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/requests"
)

type fakeRequestsService struct {
	created   *domain.InspectionRequest
	getErr    error
	gotInput  requests.CreateInput
	gotFields map[string]any
}

func (f *fakeRequestsService) List(context.Context, int) ([]domain.InspectionRequest, error) {
	return nil, nil
}

func (f *fakeRequestsService) Get(context.Context, string) (*domain.InspectionRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.InspectionRequest{}, nil
}

func (f *fakeRequestsService) Create(_ context.Context, in requests.CreateInput) (*domain.InspectionRequest, error) {
	f.gotInput = in
	return f.created, nil
}

func (f *fakeRequestsService) Update(_ context.Context, _ string, fields map[string]any) (*domain.InspectionRequest, error) {
	f.gotFields = fields
	return &domain.InspectionRequest{}, nil
}

func (f *fakeRequestsService) SetStatus(context.Context, string, string) (*domain.InspectionRequest, error) {
	return &domain.InspectionRequest{}, nil
}

func TestRequestsHandler_CreateValidates(t *testing.T) {
	h := NewRequestsHandler(&fakeRequestsService{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/requests",
		strings.NewReader(`{"client_name":"Jane Smith"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PropertyAddress")
}

func TestRequestsHandler_Create(t *testing.T) {
	svc := &fakeRequestsService{created: &domain.InspectionRequest{ClientName: "Jane Smith"}}
	h := NewRequestsHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/requests",
		strings.NewReader(`{"client_name":"Jane Smith","property_address":"500 Main St","urgent":true}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Jane Smith", svc.gotInput.ClientName)
	assert.True(t, svc.gotInput.Urgent)
}

func TestRequestsHandler_GetNotFound(t *testing.T) {
	h := NewRequestsHandler(&fakeRequestsService{getErr: domain.ErrNotFound}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/requests/r-404", nil)
	req.SetPathValue("id", "r-404")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestsHandler_ListRejectsBadLimit(t *testing.T) {
	h := NewRequestsHandler(&fakeRequestsService{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/requests?limit=abc", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
