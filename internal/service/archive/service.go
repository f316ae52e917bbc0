// Package archive implements the archive/restore engine for client
// profiles: collapsing a collected graph into one snapshot record and
// deleting the originals, and the inverse: recreating the graph with
// fresh identifiers and relinked foreign keys, then removing the
// snapshot.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/pkg/ctxutil"
)

type collector interface {
	CollectGraph(ctx context.Context, clientName string) (*domain.ClientGraph, error)
}

type requestStore interface {
	Create(ctx context.Context, fields any) (*domain.InspectionRequest, error)
	Delete(ctx context.Context, id string) error
}

type documentStore interface {
	Create(ctx context.Context, fields any) (*domain.ClientDocument, error)
	Delete(ctx context.Context, id string) error
}

type taskStore interface {
	Create(ctx context.Context, fields any) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type noteStore interface {
	Create(ctx context.Context, fields any) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
}

type archiveStore interface {
	List(ctx context.Context, sort string, limit int) ([]domain.ArchivedProfile, error)
	Get(ctx context.Context, id string) (*domain.ArchivedProfile, error)
	Create(ctx context.Context, fields any) (*domain.ArchivedProfile, error)
	Delete(ctx context.Context, id string) error
}

// Service implements the archive/restore engine. All operations are
// admin-gated and serialized per client name.
type Service struct {
	collector collector
	requests  requestStore
	documents documentStore
	tasks     taskStore
	notes     noteStore
	archives  archiveStore
	locks     *clientLocks
	log       *slog.Logger
}

// NewService creates an archive service.
func NewService(
	log *slog.Logger,
	collector collector,
	requests requestStore,
	documents documentStore,
	tasks taskStore,
	notes noteStore,
	archives archiveStore,
) *Service {
	return &Service{
		collector: collector,
		requests:  requests,
		documents: documents,
		tasks:     tasks,
		notes:     notes,
		archives:  archives,
		locks:     newClientLocks(),
		log:       log.With("service", "archive"),
	}
}

// archiveFields is the create payload for an ArchivedProfile record.
type archiveFields struct {
	ClientName          string              `json:"client_name"`
	ArchivedData        domain.ArchivedData `json:"archived_data"`
	DeletedBy           string              `json:"deleted_by"`
	OriginalCreatedDate time.Time           `json:"original_created_date"`
}

// List returns archived profiles, newest first.
func (s *Service) List(ctx context.Context) ([]domain.ArchivedProfile, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.archives.List(ctx, "-created_date", 0)
}

// Archive collapses the named client profile into one snapshot record and
// deletes the originals. A client with no live requests is a no-op and
// returns (nil, nil). The snapshot is created before any deletion; if a
// deletion tier fails the snapshot is kept and a PartialError identifies
// the tier, so a retry can re-collect the remaining live records.
func (s *Service) Archive(ctx context.Context, clientName string) (*domain.ArchivedProfile, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(clientName)
	defer unlock()

	return s.archiveLocked(ctx, clientName, actor)
}

func (s *Service) archiveLocked(ctx context.Context, clientName string, actor *domain.User) (*domain.ArchivedProfile, error) {
	graph, err := s.collector.CollectGraph(ctx, clientName)
	if err != nil {
		return nil, err
	}
	if graph.Empty() {
		s.log.InfoContext(ctx, "nothing to archive", slog.String("client", clientName))
		return nil, nil
	}

	profile, err := s.archives.Create(ctx, archiveFields{
		ClientName: clientName,
		ArchivedData: domain.ArchivedData{
			Requests:  graph.Requests,
			Documents: graph.Documents,
			Tasks:     graph.Tasks,
			Notes:     graph.Notes,
		},
		DeletedBy:           actor.Email,
		OriginalCreatedDate: oldestCreated(graph.Requests),
	})
	if err != nil {
		// Snapshot-first: nothing has been deleted yet.
		return nil, fmt.Errorf("archive %q: create snapshot: %w", clientName, err)
	}

	// Delete in dependency order so no live record ever references an
	// already-deleted parent. Deletes within a tier run concurrently;
	// tiers run strictly in order.
	tiers := []struct {
		step string
		ids  []string
		del  func(context.Context, string) error
	}{
		{"delete notes", noteIDs(graph.Notes), s.notes.Delete},
		{"delete tasks", taskIDs(graph.Tasks), s.tasks.Delete},
		{"delete documents", documentIDs(graph.Documents), s.documents.Delete},
		{"delete requests", requestIDs(graph.Requests), s.requests.Delete},
	}
	for _, tier := range tiers {
		done, err := deleteTier(ctx, tier.del, tier.ids)
		if err != nil {
			return nil, &domain.PartialError{
				Op:     "archive",
				Client: clientName,
				Step:   tier.step,
				Done:   done,
				Total:  len(tier.ids),
				Err:    err,
			}
		}
	}

	nReq, nDoc, nTask, nNote := graph.Counts()
	s.log.InfoContext(ctx, "archived client profile",
		slog.String("client", clientName),
		slog.String("archive_id", profile.ID),
		slog.Int("requests", nReq),
		slog.Int("documents", nDoc),
		slog.Int("tasks", nTask),
		slog.Int("notes", nNote),
	)

	return profile, nil
}

// BulkResult reports the outcome for one client of a bulk archive.
type BulkResult struct {
	Client    string `json:"client"`
	Archived  bool   `json:"archived"`
	ArchiveID string `json:"archive_id,omitempty"`
}

// BulkArchive archives the named clients one at a time, skipping clients
// with no live requests. On error the results archived so far are
// returned alongside it.
func (s *Service) BulkArchive(ctx context.Context, clientNames []string) ([]BulkResult, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]BulkResult, 0, len(clientNames))
	for _, name := range clientNames {
		unlock := s.locks.lock(name)
		profile, err := s.archiveLocked(ctx, name, actor)
		unlock()
		if err != nil {
			return results, err
		}

		res := BulkResult{Client: name, Archived: profile != nil}
		if profile != nil {
			res.ArchiveID = profile.ID
		}
		results = append(results, res)
	}
	return results, nil
}

// Restore recreates the graph stored in the snapshot with fresh
// identifiers: requests first, then each request's documents and tasks,
// then each task's notes, relinking foreign keys through the old->new
// identifier maps. On success the snapshot is deleted. A mid-restore
// failure leaves the already-created records live and keeps the snapshot;
// retrying re-creates duplicates (documented limitation).
func (s *Service) Restore(ctx context.Context, archiveID string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	profile, err := s.archives.Get(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("restore: load snapshot %s: %w", archiveID, err)
	}

	unlock := s.locks.lock(profile.ClientName)
	defer unlock()

	data := profile.ArchivedData
	docsByRequest := groupBy(data.Documents, func(d domain.ClientDocument) string { return d.InspectionRequestID })
	tasksByRequest := groupBy(data.Tasks, func(t domain.Task) string { return t.RelatedRequestID })
	notesByTask := groupBy(data.Notes, func(n domain.Note) string { return n.TaskID })

	total := len(data.Requests) + len(data.Documents) + len(data.Tasks) + len(data.Notes)
	done := 0
	partial := func(step string, err error) error {
		return &domain.PartialError{
			Op:     "restore",
			Client: profile.ClientName,
			Step:   step,
			Done:   done,
			Total:  total,
			Err:    err,
		}
	}

	for _, oldReq := range data.Requests {
		fields, err := recordFields(oldReq)
		if err != nil {
			return partial("create requests", err)
		}
		newReq, err := s.requests.Create(ctx, fields)
		if err != nil {
			return partial("create requests", err)
		}
		done++

		for _, doc := range docsByRequest[oldReq.ID] {
			fields, err := recordFields(doc, "inspection_request_id")
			if err != nil {
				return partial("create documents", err)
			}
			fields["inspection_request_id"] = newReq.ID
			if _, err := s.documents.Create(ctx, fields); err != nil {
				return partial("create documents", err)
			}
			done++
		}

		for _, oldTask := range tasksByRequest[oldReq.ID] {
			fields, err := recordFields(oldTask, "related_request_id")
			if err != nil {
				return partial("create tasks", err)
			}
			fields["related_request_id"] = newReq.ID
			newTask, err := s.tasks.Create(ctx, fields)
			if err != nil {
				return partial("create tasks", err)
			}
			done++

			for _, note := range notesByTask[oldTask.ID] {
				fields, err := recordFields(note, "task_id")
				if err != nil {
					return partial("create notes", err)
				}
				fields["task_id"] = newTask.ID
				if _, err := s.notes.Create(ctx, fields); err != nil {
					return partial("create notes", err)
				}
				done++
			}
		}
	}

	if err := s.archives.Delete(ctx, archiveID); err != nil {
		return partial("delete snapshot", err)
	}

	s.log.InfoContext(ctx, "restored client profile",
		slog.String("client", profile.ClientName),
		slog.String("archive_id", archiveID),
		slog.Int("records", total),
	)

	return nil
}

// PermanentDelete removes a snapshot without restoring it.
func (s *Service) PermanentDelete(ctx context.Context, archiveID string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	profile, err := s.archives.Get(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("permanent delete: load snapshot %s: %w", archiveID, err)
	}

	if err := s.archives.Delete(ctx, archiveID); err != nil {
		return fmt.Errorf("permanent delete %s: %w", archiveID, err)
	}

	s.log.InfoContext(ctx, "permanently deleted archive",
		slog.String("client", profile.ClientName),
		slog.String("archive_id", archiveID),
	)
	return nil
}

func requireAdmin(ctx context.Context) (*domain.User, error) {
	u, ok := ctxutil.UserFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !u.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// deleteTier deletes all ids concurrently and reports how many finished.
func deleteTier(ctx context.Context, del func(context.Context, string) error, ids []string) (int, error) {
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			if err := del(gctx, id); err != nil {
				return err
			}
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(done.Load()), err
}

// oldestCreated returns the minimum creation timestamp. The incoming
// order is whatever the store returned; the minimum is computed
// explicitly rather than assumed from position.
func oldestCreated(requests []domain.InspectionRequest) time.Time {
	oldest := requests[0].CreatedDate
	for _, r := range requests[1:] {
		if r.CreatedDate.Before(oldest) {
			oldest = r.CreatedDate
		}
	}
	return oldest
}

func groupBy[T any](items []T, key func(T) string) map[string][]T {
	m := make(map[string][]T, len(items))
	for _, it := range items {
		k := key(it)
		m[k] = append(m[k], it)
	}
	return m
}

func requestIDs(rs []domain.InspectionRequest) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func documentIDs(ds []domain.ClientDocument) []string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	return ids
}

func taskIDs(ts []domain.Task) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

func noteIDs(ns []domain.Note) []string {
	ids := make([]string, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}
