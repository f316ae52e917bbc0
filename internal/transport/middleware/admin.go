package middleware

import (
	"context"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context user is not
// admin, and domain.ErrUnauthorized if there is no user at all.
// Use in handlers before admin-gated reads; admin-gated mutations are
// additionally checked inside their services.
func RequireAdmin(ctx context.Context) error {
	if _, ok := ctxutil.UserFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}
	return nil
}
