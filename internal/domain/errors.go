package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// StatusInUseError is returned when deleting a status option whose label
// is still referenced by live records. The count is recomputed at deletion
// time, never cached.
type StatusInUseError struct {
	Label string
	Count int
}

func (e *StatusInUseError) Error() string {
	return fmt.Sprintf("status %q is in use by %d record(s)", e.Label, e.Count)
}

func (e *StatusInUseError) Unwrap() error { return ErrConflict }

// PartialError reports a multi-step cascade that failed after some steps
// succeeded. No automatic rollback is performed; the fields identify the
// operation, the client profile, and the step that failed so the caller
// can reconcile or retry.
type PartialError struct {
	Op     string // "archive", "restore", "rename"
	Client string // client name, or the status label for a rename
	Step   string
	Done   int
	Total  int
	Err    error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s %q: %s failed after %d/%d: %v", e.Op, e.Client, e.Step, e.Done, e.Total, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
