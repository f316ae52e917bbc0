package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

type userService interface {
	List(ctx context.Context) ([]domain.UserAccount, error)
	SetManager(ctx context.Context, id string, isManager bool) (*domain.UserAccount, error)
}

// UsersHandler serves the admin user directory.
type UsersHandler struct {
	users userService
	log   *slog.Logger
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(users userService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		users: users,
		log:   logger.With("handler", "users"),
	}
}

// List returns all portal accounts, ordered by full name.
// GET /api/admin/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.UserAccount{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

type setManagerRequest struct {
	IsManager bool `json:"is_manager"`
}

// SetManager grants or revokes manager privileges on one account.
// PUT /api/admin/users/{id}/manager
func (h *UsersHandler) SetManager(w http.ResponseWriter, r *http.Request) {
	var req setManagerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	account, err := h.users.SetManager(r.Context(), r.PathValue("id"), req.IsManager)
	if err != nil {
		h.log.ErrorContext(r.Context(), "set manager privileges",
			slog.String("user_id", r.PathValue("id")),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
