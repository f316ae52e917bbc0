package entitystore

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/config"
	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.EntityStoreConfig{
		BaseURL: srv.URL,
		AppID:   "app-1",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, slog.Default())
	require.NoError(t, err)
	return c
}

func TestCollection_List(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/apps/app-1/entities/InspectionRequest", r.URL.Path)
		assert.Equal(t, "-created_date", r.URL.Query().Get("sort"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]domain.InspectionRequest{ //nolint:errcheck
			{Meta: domain.Meta{ID: "r1"}, ClientName: "Smith"},
		})
	}))

	got, err := c.Requests.List(context.Background(), "-created_date", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Smith", got[0].ClientName)
}

func TestCollection_Filter_SendsPredicate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/apps/app-1/entities/Note/filter", r.URL.Path)

		var pred map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pred))
		assert.Equal(t, map[string]any{"task_id": map[string]any{"$in": []any{"t1", "t2"}}}, pred)

		json.NewEncoder(w).Encode([]domain.Note{}) //nolint:errcheck
	}))

	_, err := c.Notes.Filter(context.Background(), Predicate{"task_id": In([]string{"t1", "t2"})})
	require.NoError(t, err)
}

func TestCollection_Get_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.Tasks.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollection_Delete_IdempotentOn404(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	assert.NoError(t, c.Tasks.Delete(context.Background(), "already-gone"))
}

func TestCollection_Create(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/apps/app-1/entities/Task", r.URL.Path)

		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Photos Request for Smith", fields["title"])

		json.NewEncoder(w).Encode(domain.Task{ //nolint:errcheck
			Meta:  domain.Meta{ID: "t-new", CreatedBy: "admin@example.com"},
			Title: "Photos Request for Smith",
		})
	}))

	got, err := c.Tasks.Create(context.Background(), map[string]any{"title": "Photos Request for Smith"})
	require.NoError(t, err)
	assert.Equal(t, "t-new", got.ID)
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClient_UploadFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/apps/app-1/files", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "estimate.pdf", hdr.Filename)

		json.NewEncoder(w).Encode(map[string]string{"file_url": "https://files.example.com/abc"}) //nolint:errcheck
	}))

	url, err := c.UploadFile(context.Background(), "estimate.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/abc", url)
}
