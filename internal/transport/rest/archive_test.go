package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

type fakeArchiveService struct {
	profiles   []domain.ArchivedProfile
	archiveErr error
	restoreErr error
	archived   *domain.ArchivedProfile
	gotClient  string
	gotID      string
}

func (f *fakeArchiveService) List(context.Context) ([]domain.ArchivedProfile, error) {
	return f.profiles, nil
}

func (f *fakeArchiveService) Archive(_ context.Context, clientName string) (*domain.ArchivedProfile, error) {
	f.gotClient = clientName
	return f.archived, f.archiveErr
}

func (f *fakeArchiveService) Restore(_ context.Context, archiveID string) error {
	f.gotID = archiveID
	return f.restoreErr
}

func (f *fakeArchiveService) PermanentDelete(_ context.Context, archiveID string) error {
	f.gotID = archiveID
	return nil
}

type fakeObserver struct {
	ops map[string]string
}

func (f *fakeObserver) ObserveOperation(operation, outcome string) {
	if f.ops == nil {
		f.ops = make(map[string]string)
	}
	f.ops[operation] = outcome
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArchiveHandler_Create(t *testing.T) {
	svc := &fakeArchiveService{
		archived: &domain.ArchivedProfile{Meta: domain.Meta{ID: "arch-1"}, ClientName: "Jane Smith"},
	}
	obs := &fakeObserver{}
	h := NewArchiveHandler(svc, obs, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/archives", strings.NewReader(`{"client_name":"Jane Smith"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Jane Smith", svc.gotClient)
	assert.Equal(t, "ok", obs.ops["archive"])

	var body archiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Archived)
	assert.Equal(t, "arch-1", body.Profile.ID)
}

func TestArchiveHandler_CreateNothingToArchive(t *testing.T) {
	h := NewArchiveHandler(&fakeArchiveService{}, &fakeObserver{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/archives", strings.NewReader(`{"client_name":"Nobody"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body archiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Archived)
	assert.Nil(t, body.Profile)
}

func TestArchiveHandler_CreateMissingClient(t *testing.T) {
	h := NewArchiveHandler(&fakeArchiveService{}, &fakeObserver{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/archives", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveHandler_RestorePartialFailure(t *testing.T) {
	svc := &fakeArchiveService{
		restoreErr: &domain.PartialError{
			Op: "restore", Client: "Jane Smith", Step: "create tasks",
			Done: 3, Total: 7, Err: assert.AnError,
		},
	}
	obs := &fakeObserver{}
	h := NewArchiveHandler(svc, obs, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/archives/arch-1/restore", nil)
	req.SetPathValue("id", "arch-1")
	rec := httptest.NewRecorder()
	h.Restore(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "partial", obs.ops["restore"])

	var body partialBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "create tasks", body.Step)
	assert.Equal(t, 3, body.Done)
}

func TestArchiveHandler_Delete(t *testing.T) {
	svc := &fakeArchiveService{}
	h := NewArchiveHandler(svc, &fakeObserver{}, discardLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/archives/arch-9", nil)
	req.SetPathValue("id", "arch-9")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "arch-9", svc.gotID)
}
