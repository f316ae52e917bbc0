// Package storetest provides an in-memory stand-in for the remote entity
// service. It mirrors the SDK client's collection contract: store-assigned
// identifiers and timestamps, partial updates, predicate filtering, and
// idempotent deletes. Failure hooks let tests break individual operations
// to exercise partial-cascade behavior.
package storetest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

// Store holds all fake collections behind one lock and one actor identity.
type Store struct {
	mu   sync.Mutex
	base time.Time
	seq  int64

	// Actor is the identity returned by Me and stamped as created_by.
	Actor domain.User

	Requests  *Collection[domain.InspectionRequest]
	Documents *Collection[domain.ClientDocument]
	Tasks     *Collection[domain.Task]
	Notes     *Collection[domain.Note]
	Statuses  *Collection[domain.StatusOption]
	Archives  *Collection[domain.ArchivedProfile]
	Users     *Collection[domain.UserAccount]
}

// New creates an empty fake store with an admin actor.
func New() *Store {
	s := &Store{
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Actor: domain.User{Email: "admin@example.com", Role: domain.RoleAdmin},
	}
	s.Requests = newCollection[domain.InspectionRequest](s)
	s.Documents = newCollection[domain.ClientDocument](s)
	s.Tasks = newCollection[domain.Task](s)
	s.Notes = newCollection[domain.Note](s)
	s.Statuses = newCollection[domain.StatusOption](s)
	s.Archives = newCollection[domain.ArchivedProfile](s)
	s.Users = newCollection[domain.UserAccount](s)
	return s
}

// Me returns the configured actor.
func (s *Store) Me(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.Actor
	return &u, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// UploadFile consumes the reader and returns a deterministic fake URL.
func (s *Store) UploadFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "https://files.invalid/" + uuid.NewString() + "/" + filename, nil
}

// tick returns a strictly increasing timestamp. Callers must hold s.mu.
func (s *Store) tick() time.Time {
	s.seq++
	return s.base.Add(time.Duration(s.seq) * time.Millisecond)
}
