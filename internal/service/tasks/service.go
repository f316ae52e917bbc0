// Package tasks implements task and note operations. Deleting a task
// cascades to its notes; creating a task against a request bumps that
// request's recency.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
)

type taskStore interface {
	List(ctx context.Context, sort string, limit int) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, fields any) (*domain.Task, error)
	Update(ctx context.Context, id string, fields any) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type noteStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.Note, error)
	Create(ctx context.Context, fields any) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
}

type requestToucher interface {
	Get(ctx context.Context, id string) (*domain.InspectionRequest, error)
	Touch(ctx context.Context, id string) error
}

// Service implements task operations.
type Service struct {
	tasks    taskStore
	notes    noteStore
	requests requestToucher
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a tasks service.
func NewService(log *slog.Logger, tasks taskStore, notes noteStore, requests requestToucher) *Service {
	return &Service{
		tasks:    tasks,
		notes:    notes,
		requests: requests,
		log:      log.With("service", "tasks"),
		now:      time.Now,
	}
}

// List returns tasks, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]domain.Task, error) {
	return s.tasks.List(ctx, "-created_date", limit)
}

// Get returns one task by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

// CreateInput is the payload for Create.
type CreateInput struct {
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Status           string             `json:"status"`
	RequestType      domain.RequestType `json:"request_type"       validate:"required"`
	AssignedTo       *string            `json:"assigned_to"`
	RelatedRequestID string             `json:"related_request_id" validate:"required"`
	DueDate          *time.Time         `json:"due_date"`
}

// Create stores a new task against an existing request. An empty title is
// composed from the request type and client name. The related request's
// recency is bumped afterwards; a failed bump is logged, not fatal.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Task, error) {
	if !in.RequestType.Valid() {
		return nil, fmt.Errorf("%w: unknown request type %q", domain.ErrValidation, in.RequestType)
	}
	if in.RelatedRequestID == "" {
		return nil, fmt.Errorf("%w: related_request_id is required", domain.ErrValidation)
	}

	request, err := s.requests.Get(ctx, in.RelatedRequestID)
	if err != nil {
		return nil, fmt.Errorf("related request %s: %w", in.RelatedRequestID, err)
	}

	if in.Title == "" {
		client := request.ClientName
		if client == "" {
			client = "General"
		}
		in.Title = fmt.Sprintf("%s Request for %s", in.RequestType, client)
	}

	task, err := s.tasks.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Touch(ctx, in.RelatedRequestID); err != nil {
		s.log.WarnContext(ctx, "bump related request failed",
			slog.String("request_id", in.RelatedRequestID),
			slog.String("error", err.Error()),
		)
	}

	return task, nil
}

// Update applies a partial update, protecting store-managed fields and
// the request linkage.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (*domain.Task, error) {
	delete(fields, "id")
	delete(fields, "created_date")
	delete(fields, "updated_date")
	delete(fields, "created_by")
	delete(fields, "related_request_id")

	return s.tasks.Update(ctx, id, fields)
}

// SetStatus changes the task's status label, stamping completed_date when
// the task moves into the completed status and clearing it otherwise.
func (s *Service) SetStatus(ctx context.Context, id, label string) (*domain.Task, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}

	fields := map[string]any{"status": label}
	if label == domain.TaskStatusCompleted {
		fields["completed_date"] = s.now().UTC()
	} else {
		fields["completed_date"] = nil
	}

	return s.tasks.Update(ctx, id, fields)
}

// Delete removes a task and all its notes. Notes go first, concurrently,
// so no note ever references a missing task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks.Get(ctx, id); err != nil {
		return err
	}

	notes, err := s.notes.Filter(ctx, entitystore.Where("task_id", id))
	if err != nil {
		return fmt.Errorf("delete task %s: list notes: %w", id, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range notes {
		g.Go(func() error { return s.notes.Delete(gctx, n.ID) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("delete task %s: delete notes: %w", id, err)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	s.log.InfoContext(ctx, "deleted task",
		slog.String("task_id", id),
		slog.Int("notes", len(notes)),
	)
	return nil
}

// AddNote attaches a note to an existing task.
func (s *Service) AddNote(ctx context.Context, taskID, content string) (*domain.Note, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, fmt.Errorf("task %s: %w", taskID, err)
	}

	return s.notes.Create(ctx, map[string]any{
		"task_id": taskID,
		"content": content,
	})
}

// ListNotes returns a task's notes, newest first.
func (s *Service) ListNotes(ctx context.Context, taskID string) ([]domain.Note, error) {
	notes, err := s.notes.Filter(ctx, entitystore.Where("task_id", taskID))
	if err != nil {
		return nil, err
	}
	// Filter returns oldest first; the portal shows newest first.
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
	return notes, nil
}
