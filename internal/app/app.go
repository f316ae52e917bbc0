// Package app wires configuration, the entity store client, services,
// and the HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/clearpathclaims/inspectdesk/internal/auth"
	"github.com/clearpathclaims/inspectdesk/internal/config"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
	"github.com/clearpathclaims/inspectdesk/internal/metrics"
	"github.com/clearpathclaims/inspectdesk/internal/service/archive"
	"github.com/clearpathclaims/inspectdesk/internal/service/directory"
	"github.com/clearpathclaims/inspectdesk/internal/service/documents"
	"github.com/clearpathclaims/inspectdesk/internal/service/requests"
	"github.com/clearpathclaims/inspectdesk/internal/service/status"
	"github.com/clearpathclaims/inspectdesk/internal/service/tasks"
	"github.com/clearpathclaims/inspectdesk/internal/service/users"
	"github.com/clearpathclaims/inspectdesk/internal/transport/rest"
)

// Run is the application entry point. It blocks until ctx is cancelled,
// then shuts the HTTP server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	store, err := entitystore.New(cfg.EntityStore, logger)
	if err != nil {
		return fmt.Errorf("entity store client: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	m := metrics.New()

	directorySvc := directory.NewService(logger, store.Requests, store.Documents, store.Tasks, store.Notes)
	archiveSvc := archive.NewService(logger, directorySvc, store.Requests, store.Documents, store.Tasks, store.Notes, store.Archives)
	statusSvc := status.NewService(logger, store.Statuses, store.Requests, store.Tasks)
	requestsSvc := requests.NewService(logger, store.Requests, store.Statuses)
	tasksSvc := tasks.NewService(logger, store.Tasks, store.Notes, requestsSvc)
	documentsSvc := documents.NewService(logger, store.Documents, store.Requests, store)
	usersSvc := users.NewService(logger, store.Users)

	handler := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(store, BuildVersion()),
		Directory: rest.NewDirectoryHandler(directorySvc, archiveSvc, logger),
		Archive:   rest.NewArchiveHandler(archiveSvc, m, logger),
		Status:    rest.NewStatusHandler(statusSvc, m, logger),
		Requests:  rest.NewRequestsHandler(requestsSvc, logger),
		Tasks:     rest.NewTasksHandler(tasksSvc, logger),
		Documents: rest.NewDocumentsHandler(documentsSvc, logger),
		Users:     rest.NewUsersHandler(usersSvc, logger),
	}, rest.RouterOptions{
		Logger:    logger,
		CORS:      cfg.CORS,
		Validator: jwtManager,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
