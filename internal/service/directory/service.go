// Package directory implements the client directory read model and the
// cascade collector: given a client name, it walks the relationship graph
// (request -> documents, request -> tasks -> notes) and gathers every
// dependent record into one aggregate.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
)

type requestStore interface {
	List(ctx context.Context, sort string, limit int) ([]domain.InspectionRequest, error)
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.InspectionRequest, error)
}

type documentStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.ClientDocument, error)
}

type taskStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.Task, error)
}

type noteStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.Note, error)
}

// Service implements directory listing and graph collection.
type Service struct {
	requests  requestStore
	documents documentStore
	tasks     taskStore
	notes     noteStore
	log       *slog.Logger
}

// NewService creates a directory service.
func NewService(log *slog.Logger, requests requestStore, documents documentStore, tasks taskStore, notes noteStore) *Service {
	return &Service{
		requests:  requests,
		documents: documents,
		tasks:     tasks,
		notes:     notes,
		log:       log.With("service", "directory"),
	}
}

// ListClients returns one summary per distinct client name, sorted by
// name. The address shown is that of the most recently updated request.
func (s *Service) ListClients(ctx context.Context) ([]domain.ClientSummary, error) {
	requests, err := s.requests.List(ctx, "-updated_date", 0)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	seen := make(map[string]bool)
	var clients []domain.ClientSummary
	for _, r := range requests {
		if r.ClientName == "" || seen[r.ClientName] {
			continue
		}
		seen[r.ClientName] = true
		clients = append(clients, domain.ClientSummary{Name: r.ClientName, Address: r.PropertyAddress})
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

// CollectGraph gathers the full client profile for clientName. A client
// with no requests yields an empty graph and no error; callers treat that
// as "nothing to do". Documents and tasks are fetched concurrently since
// they only depend on the request set; notes depend on the task set and
// are fetched after.
func (s *Service) CollectGraph(ctx context.Context, clientName string) (*domain.ClientGraph, error) {
	graph := &domain.ClientGraph{ClientName: clientName}

	requests, err := s.requests.Filter(ctx, entitystore.Where("client_name", clientName))
	if err != nil {
		return nil, fmt.Errorf("collect %q: requests: %w", clientName, err)
	}
	if len(requests) == 0 {
		return graph, nil
	}
	graph.Requests = requests

	requestIDs := make([]string, len(requests))
	for i, r := range requests {
		requestIDs[i] = r.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.documents.Filter(gctx, entitystore.Predicate{"inspection_request_id": entitystore.In(requestIDs)})
		if err != nil {
			return fmt.Errorf("documents: %w", err)
		}
		graph.Documents = docs
		return nil
	})
	g.Go(func() error {
		tasks, err := s.tasks.Filter(gctx, entitystore.Predicate{"related_request_id": entitystore.In(requestIDs)})
		if err != nil {
			return fmt.Errorf("tasks: %w", err)
		}
		graph.Tasks = tasks
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect %q: %w", clientName, err)
	}

	if len(graph.Tasks) > 0 {
		taskIDs := make([]string, len(graph.Tasks))
		for i, t := range graph.Tasks {
			taskIDs[i] = t.ID
		}
		notes, err := s.notes.Filter(ctx, entitystore.Predicate{"task_id": entitystore.In(taskIDs)})
		if err != nil {
			return nil, fmt.Errorf("collect %q: notes: %w", clientName, err)
		}
		graph.Notes = notes
	}

	s.log.DebugContext(ctx, "collected client graph",
		slog.String("client", clientName),
		slog.Int("requests", len(graph.Requests)),
		slog.Int("documents", len(graph.Documents)),
		slog.Int("tasks", len(graph.Tasks)),
		slog.Int("notes", len(graph.Notes)),
	)

	return graph, nil
}
