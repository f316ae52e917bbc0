package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore/storetest"
	"github.com/clearpathclaims/inspectdesk/internal/service/requests"
)

func newService(t *testing.T) (*storetest.Store, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storetest.New()
	requestsSvc := requests.NewService(logger, store.Requests, store.Statuses)
	return store, NewService(logger, store.Tasks, store.Notes, requestsSvc)
}

func seedRequest(t *testing.T, store *storetest.Store, client string) *domain.InspectionRequest {
	t.Helper()
	r, err := store.Requests.Create(context.Background(), map[string]any{
		"client_name":      client,
		"property_address": "500 Main St",
		"status":           "Pending",
	})
	require.NoError(t, err)
	return r
}

func TestCreate_ComposesTitle(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")

	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Photos Request for Jane Smith", task.Title)
}

func TestCreate_ComposesGeneralTitleWithoutClient(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "")

	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypeDocuments,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Documents Request for General", task.Title)
}

func TestCreate_KeepsExplicitTitle(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")

	task, err := svc.Create(context.Background(), CreateInput{
		Title:            "Call the adjuster",
		RequestType:      domain.RequestTypeOther,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Call the adjuster", task.Title)
}

func TestCreate_BumpsRelatedRequest(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")

	_, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)

	after, err := store.Requests.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedDate.After(r.UpdatedDate))
}

func TestCreate_RejectsUnknownRequest(t *testing.T) {
	_, svc := newService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: "missing",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	_, svc := newService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		RequestType:      "Bogus",
		RelatedRequestID: "r-1",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetStatus_StampsCompletedDate(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)

	completed, err := svc.SetStatus(context.Background(), task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedDate)
	assert.True(t, completed.CompletedDate.Equal(fixed))

	reopened, err := svc.SetStatus(context.Background(), task.ID, "In Progress")
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedDate)
	assert.Equal(t, "In Progress", reopened.Status)
}

func TestDelete_CascadesNotes(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")

	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)

	for _, content := range []string{"one", "two"} {
		_, err := svc.AddNote(context.Background(), task.ID, content)
		require.NoError(t, err)
	}
	// A note on another task must survive.
	other, err := store.Notes.Create(context.Background(), map[string]any{
		"task_id": "other-task",
		"content": "keep me",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), task.ID))

	assert.Equal(t, 0, store.Tasks.Len())
	assert.Equal(t, 1, store.Notes.Len())
	_, err = store.Notes.Get(context.Background(), other.ID)
	assert.NoError(t, err)
}

func TestDelete_NoteFailureKeepsTask(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")

	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)
	_, err = svc.AddNote(context.Background(), task.ID, "note")
	require.NoError(t, err)

	store.Notes.FailDelete = func(string) error {
		return errors.New("store unavailable")
	}

	err = svc.Delete(context.Background(), task.ID)
	require.Error(t, err)
	assert.Equal(t, 1, store.Tasks.Len())
}

func TestDelete_UnknownTask(t *testing.T) {
	_, svc := newService(t)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddNote_Validates(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")
	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddNote(context.Background(), task.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddNote(context.Background(), "missing", "content")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNotes_NewestFirst(t *testing.T) {
	store, svc := newService(t)
	r := seedRequest(t, store, "Jane Smith")
	task, err := svc.Create(context.Background(), CreateInput{
		RequestType:      domain.RequestTypePhotos,
		RelatedRequestID: r.ID,
	})
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.AddNote(context.Background(), task.ID, content)
		require.NoError(t, err)
	}

	notes, err := svc.ListNotes(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Content)
	assert.Equal(t, "first", notes[2].Content)
}
