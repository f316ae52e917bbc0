package rest

import (
	"log/slog"
	"net/http"

	"github.com/clearpathclaims/inspectdesk/internal/config"
	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/metrics"
	"github.com/clearpathclaims/inspectdesk/internal/transport/middleware"
)

// Handlers groups the REST handlers wired into the router.
type Handlers struct {
	Health    *HealthHandler
	Directory *DirectoryHandler
	Archive   *ArchiveHandler
	Status    *StatusHandler
	Requests  *RequestsHandler
	Tasks     *TasksHandler
	Documents *DocumentsHandler
	Users     *UsersHandler
}

type tokenValidator interface {
	ValidateToken(token string) (*domain.User, error)
}

// RouterOptions carries the cross-cutting dependencies of the router.
type RouterOptions struct {
	Logger    *slog.Logger
	CORS      config.CORSConfig
	Validator tokenValidator
	Metrics   *metrics.Metrics
}

// NewRouter assembles the full HTTP handler: routes plus the middleware
// chain (request ID, logging, recovery, CORS, metrics, auth).
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", opts.Metrics.Handler())

	mux.HandleFunc("GET /api/admin/clients", h.Directory.ListClients)
	mux.HandleFunc("POST /api/admin/clients/archive", h.Directory.BulkArchive)
	mux.HandleFunc("GET /api/admin/users", h.Users.List)
	mux.HandleFunc("PUT /api/admin/users/{id}/manager", h.Users.SetManager)

	mux.HandleFunc("GET /api/archives", h.Archive.List)
	mux.HandleFunc("POST /api/archives", h.Archive.Create)
	mux.HandleFunc("POST /api/archives/{id}/restore", h.Archive.Restore)
	mux.HandleFunc("DELETE /api/archives/{id}", h.Archive.Delete)

	mux.HandleFunc("GET /api/statuses", h.Status.List)
	mux.HandleFunc("POST /api/statuses", h.Status.Create)
	mux.HandleFunc("GET /api/statuses/usage", h.Status.UsageCounts)
	mux.HandleFunc("PUT /api/statuses/{id}/colors", h.Status.UpdateColors)
	mux.HandleFunc("POST /api/statuses/{id}/rename", h.Status.Rename)
	mux.HandleFunc("DELETE /api/statuses/{id}", h.Status.Delete)

	mux.HandleFunc("GET /api/requests", h.Requests.List)
	mux.HandleFunc("POST /api/requests", h.Requests.Create)
	mux.HandleFunc("GET /api/requests/{id}", h.Requests.Get)
	mux.HandleFunc("PATCH /api/requests/{id}", h.Requests.Update)
	mux.HandleFunc("PUT /api/requests/{id}/status", h.Requests.SetStatus)
	mux.HandleFunc("GET /api/requests/{id}/documents", h.Documents.ListByRequest)
	mux.HandleFunc("POST /api/requests/{id}/documents", h.Documents.Upload)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.Delete)

	mux.HandleFunc("GET /api/tasks", h.Tasks.List)
	mux.HandleFunc("POST /api/tasks", h.Tasks.Create)
	mux.HandleFunc("GET /api/tasks/{id}", h.Tasks.Get)
	mux.HandleFunc("PATCH /api/tasks/{id}", h.Tasks.Update)
	mux.HandleFunc("PUT /api/tasks/{id}/status", h.Tasks.SetStatus)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.Tasks.Delete)
	mux.HandleFunc("GET /api/tasks/{id}/notes", h.Tasks.ListNotes)
	mux.HandleFunc("POST /api/tasks/{id}/notes", h.Tasks.AddNote)

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger),
		middleware.CORS(opts.CORS),
		opts.Metrics.Instrument,
		middleware.Auth(opts.Validator),
	)(mux)
}
