// Package users implements the admin user directory: listing portal
// accounts and granting or revoking manager privileges.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/pkg/ctxutil"
)

type userStore interface {
	List(ctx context.Context, sort string, limit int) ([]domain.UserAccount, error)
	Get(ctx context.Context, id string) (*domain.UserAccount, error)
	Update(ctx context.Context, id string, fields any) (*domain.UserAccount, error)
}

// Service implements user-account operations. All of them are admin-gated.
type Service struct {
	users userStore
	log   *slog.Logger
}

// NewService creates a users service.
func NewService(log *slog.Logger, users userStore) *Service {
	return &Service{
		users: users,
		log:   log.With("service", "users"),
	}
}

// List returns every portal account, ordered by full name.
func (s *Service) List(ctx context.Context) ([]domain.UserAccount, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	accounts, err := s.users.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].FullName) < strings.ToLower(accounts[j].FullName)
	})
	return accounts, nil
}

// SetManager grants or revokes manager privileges on one account. Admin
// accounts always hold full privileges and cannot be toggled.
func (s *Service) SetManager(ctx context.Context, id string, isManager bool) (*domain.UserAccount, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be demoted", domain.ErrValidation)
	}

	updated, err := s.users.Update(ctx, id, map[string]any{"is_manager": isManager})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "set manager privileges",
		slog.String("user_id", id),
		slog.Bool("is_manager", isManager),
		slog.String("by", actor.Email),
	)
	return updated, nil
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
