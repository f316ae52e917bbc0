package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/service/tasks"
)

type tasksService interface {
	List(ctx context.Context, limit int) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, in tasks.CreateInput) (*domain.Task, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Task, error)
	SetStatus(ctx context.Context, id, label string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	AddNote(ctx context.Context, taskID, content string) (*domain.Note, error)
	ListNotes(ctx context.Context, taskID string) ([]domain.Note, error)
}

// TasksHandler serves task and note endpoints.
type TasksHandler struct {
	tasks    tasksService
	validate *validator.Validate
	log      *slog.Logger
}

// NewTasksHandler creates a TasksHandler.
func NewTasksHandler(svc tasksService, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{
		tasks:    svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.With("handler", "tasks"),
	}
}

// List returns tasks, newest first.
// GET /api/tasks?limit=50
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.tasks.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one task.
// GET /api/tasks/{id}
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create stores a new task against an existing request.
// POST /api/tasks
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in tasks.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.tasks.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update applies a partial update.
// PATCH /api/tasks/{id}
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeServiceError(w, err)
		return
	}

	item, err := h.tasks.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// SetStatus changes the task's status label.
// PUT /api/tasks/{id}/status
func (h *TasksHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	item, err := h.tasks.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a task and all its notes.
// DELETE /api/tasks/{id}
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addNoteRequest struct {
	Content string `json:"content"`
}

// AddNote attaches a note to a task.
// POST /api/tasks/{id}/notes
func (h *TasksHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	note, err := h.tasks.AddNote(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// ListNotes returns a task's notes, newest first.
// GET /api/tasks/{id}/notes
func (h *TasksHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.tasks.ListNotes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}
