package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/archive"
	"github.com/clearpathclaims/inspectdesk/pkg/ctxutil"
)

type fakeDirectoryService struct {
	clients []domain.ClientSummary
}

func (f *fakeDirectoryService) ListClients(context.Context) ([]domain.ClientSummary, error) {
	return f.clients, nil
}

type fakeBulkArchiver struct {
	results []archive.BulkResult
	err     error
	got     []string
}

func (f *fakeBulkArchiver) BulkArchive(_ context.Context, clientNames []string) ([]archive.BulkResult, error) {
	f.got = clientNames
	return f.results, f.err
}

func asAdmin(r *http.Request) *http.Request {
	ctx := ctxutil.WithUser(r.Context(), &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin})
	return r.WithContext(ctx)
}

func TestDirectoryHandler_ListClients(t *testing.T) {
	svc := &fakeDirectoryService{clients: []domain.ClientSummary{
		{Name: "Alice Brown", Address: "12 Oak St"},
		{Name: "Jane Smith", Address: "500 Main St"},
	}}
	h := NewDirectoryHandler(svc, &fakeBulkArchiver{}, discardLogger())

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/clients", nil))
	rec := httptest.NewRecorder()
	h.ListClients(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.ClientSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Alice Brown", got[0].Name)
}

func TestDirectoryHandler_ListClientsRequiresAdmin(t *testing.T) {
	h := NewDirectoryHandler(&fakeDirectoryService{}, &fakeBulkArchiver{}, discardLogger())

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListClients(rec, httptest.NewRequest(http.MethodGet, "/api/admin/clients", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/clients", nil)
		ctx := ctxutil.WithUser(req.Context(), &domain.User{Email: "u@example.com", Role: domain.RoleUser})
		rec := httptest.NewRecorder()
		h.ListClients(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestDirectoryHandler_BulkArchive(t *testing.T) {
	arch := &fakeBulkArchiver{results: []archive.BulkResult{
		{Client: "Jane Smith", Archived: true, ArchiveID: "arch-1"},
		{Client: "Nobody", Archived: false},
	}}
	h := NewDirectoryHandler(&fakeDirectoryService{}, arch, discardLogger())

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/clients/archive",
		strings.NewReader(`{"clients":["Jane Smith","Nobody"]}`)))
	rec := httptest.NewRecorder()
	h.BulkArchive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Jane Smith", "Nobody"}, arch.got)

	var body bulkArchiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].Archived)
	assert.False(t, body.Results[1].Archived)
}

func TestDirectoryHandler_BulkArchiveEmptyList(t *testing.T) {
	h := NewDirectoryHandler(&fakeDirectoryService{}, &fakeBulkArchiver{}, discardLogger())

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/clients/archive",
		strings.NewReader(`{"clients":[]}`)))
	rec := httptest.NewRecorder()
	h.BulkArchive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
