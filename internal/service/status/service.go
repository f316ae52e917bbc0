// Package status implements the status registry: label/color definitions
// partitioned by domain (inspection, task), a delete-if-unused guard, and
// atomic-as-possible label rename with cascading update of every
// referencing record. Statuses are referenced by label text, so a rename
// is a multi-record rewrite, not a single update.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
	"github.com/clearpathclaims/inspectdesk/pkg/ctxutil"
)

type statusStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.StatusOption, error)
	Get(ctx context.Context, id string) (*domain.StatusOption, error)
	Create(ctx context.Context, fields any) (*domain.StatusOption, error)
	Update(ctx context.Context, id string, fields any) (*domain.StatusOption, error)
	Delete(ctx context.Context, id string) error
}

type requestStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.InspectionRequest, error)
	Update(ctx context.Context, id string, fields any) (*domain.InspectionRequest, error)
}

type taskStore interface {
	Filter(ctx context.Context, pred entitystore.Predicate) ([]domain.Task, error)
	Update(ctx context.Context, id string, fields any) (*domain.Task, error)
}

// Service implements the status registry.
type Service struct {
	statuses statusStore
	requests requestStore
	tasks    taskStore
	log      *slog.Logger
}

// NewService creates a status service.
func NewService(log *slog.Logger, statuses statusStore, requests requestStore, tasks taskStore) *Service {
	return &Service{
		statuses: statuses,
		requests: requests,
		tasks:    tasks,
		log:      log.With("service", "status"),
	}
}

// List returns the status options of one type.
func (s *Service) List(ctx context.Context, typ domain.StatusType) ([]domain.StatusOption, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown status type %q", domain.ErrValidation, typ)
	}
	return s.statuses.Filter(ctx, entitystore.Where("type", typ))
}

// CreateInput is the payload for Create.
type CreateInput struct {
	Type      domain.StatusType
	Label     string
	ColorBg   string
	ColorText string
}

// Create adds a status option. Labels are unique within a type.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.StatusOption, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown status type %q", domain.ErrValidation, in.Type)
	}
	if in.Label == "" {
		return nil, fmt.Errorf("%w: label is required", domain.ErrValidation)
	}

	existing, err := s.statuses.Filter(ctx, entitystore.Predicate{"type": in.Type, "label": in.Label})
	if err != nil {
		return nil, fmt.Errorf("check duplicate label: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: status %q already exists for type %s", domain.ErrConflict, in.Label, in.Type)
	}

	return s.statuses.Create(ctx, map[string]any{
		"type":       in.Type,
		"label":      in.Label,
		"color_bg":   in.ColorBg,
		"color_text": in.ColorText,
	})
}

// UpdateColors changes a status option's badge colors. Label changes go
// through Rename so references never dangle.
func (s *Service) UpdateColors(ctx context.Context, id, colorBg, colorText string) (*domain.StatusOption, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.statuses.Update(ctx, id, map[string]any{
		"color_bg":   colorBg,
		"color_text": colorText,
	})
}

// UsageCounts returns, for every status option of one type, how many live
// records currently carry its label.
func (s *Service) UsageCounts(ctx context.Context, typ domain.StatusType) (map[string]int, error) {
	options, err := s.List(ctx, typ)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(options))
	for _, opt := range options {
		n, err := s.countUsage(ctx, typ, opt.Label)
		if err != nil {
			return nil, err
		}
		counts[opt.Label] = n
	}
	return counts, nil
}

// Delete removes a status option, but only if no live record references
// its label. The usage count is recomputed at deletion time; a nonzero
// count fails with StatusInUseError and changes nothing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	opt, err := s.statuses.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.countUsage(ctx, opt.Type, opt.Label)
	if err != nil {
		return fmt.Errorf("count usage of %q: %w", opt.Label, err)
	}
	if count > 0 {
		return &domain.StatusInUseError{Label: opt.Label, Count: count}
	}

	return s.statuses.Delete(ctx, id)
}

// Rename changes a status label and rewrites every record referencing the
// old label. Records are updated first, concurrently; the definition is
// renamed only after every record update succeeded, so a failed rewrite
// never leaves records under a label no StatusOption defines.
func (s *Service) Rename(ctx context.Context, id, newLabel string) (*domain.StatusOption, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if newLabel == "" {
		return nil, fmt.Errorf("%w: new label is required", domain.ErrValidation)
	}

	opt, err := s.statuses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if opt.Label == newLabel {
		return opt, nil
	}

	existing, err := s.statuses.Filter(ctx, entitystore.Predicate{"type": opt.Type, "label": newLabel})
	if err != nil {
		return nil, fmt.Errorf("check duplicate label: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: status %q already exists for type %s", domain.ErrConflict, newLabel, opt.Type)
	}

	updated, total, err := s.rewriteRecords(ctx, opt.Type, opt.Label, newLabel)
	if err != nil {
		return nil, &domain.PartialError{
			Op:     "rename",
			Client: opt.Label,
			Step:   "update records",
			Done:   updated,
			Total:  total,
			Err:    err,
		}
	}

	renamed, err := s.statuses.Update(ctx, id, map[string]any{"label": newLabel})
	if err != nil {
		return nil, &domain.PartialError{
			Op:     "rename",
			Client: opt.Label,
			Step:   "update definition",
			Done:   total,
			Total:  total,
			Err:    err,
		}
	}

	s.log.InfoContext(ctx, "renamed status",
		slog.String("type", string(opt.Type)),
		slog.String("from", opt.Label),
		slog.String("to", newLabel),
		slog.Int("records", total),
	)

	return renamed, nil
}

// rewriteRecords updates the status field of every record carrying
// oldLabel. Returns how many updates finished and the total found.
func (s *Service) rewriteRecords(ctx context.Context, typ domain.StatusType, oldLabel, newLabel string) (int, int, error) {
	var ids []string
	switch typ {
	case domain.StatusTypeInspection:
		records, err := s.requests.Filter(ctx, entitystore.Where("status", oldLabel))
		if err != nil {
			return 0, 0, err
		}
		for _, r := range records {
			ids = append(ids, r.ID)
		}
	case domain.StatusTypeTask:
		records, err := s.tasks.Filter(ctx, entitystore.Where("status", oldLabel))
		if err != nil {
			return 0, 0, err
		}
		for _, t := range records {
			ids = append(ids, t.ID)
		}
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			var err error
			switch typ {
			case domain.StatusTypeInspection:
				_, err = s.requests.Update(gctx, id, map[string]any{"status": newLabel})
			case domain.StatusTypeTask:
				_, err = s.tasks.Update(gctx, id, map[string]any{"status": newLabel})
			}
			if err != nil {
				return err
			}
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(done.Load()), len(ids), err
}

func (s *Service) countUsage(ctx context.Context, typ domain.StatusType, label string) (int, error) {
	switch typ {
	case domain.StatusTypeInspection:
		records, err := s.requests.Filter(ctx, entitystore.Where("status", label))
		if err != nil {
			return 0, err
		}
		return len(records), nil
	case domain.StatusTypeTask:
		records, err := s.tasks.Filter(ctx, entitystore.Where("status", label))
		if err != nil {
			return 0, err
		}
		return len(records), nil
	}
	return 0, fmt.Errorf("%w: unknown status type %q", domain.ErrValidation, typ)
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
