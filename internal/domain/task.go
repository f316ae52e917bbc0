package domain

import "time"

// RequestType says what a task is asking for.
type RequestType string

const (
	RequestTypePhotos    RequestType = "Photos"
	RequestTypeDocuments RequestType = "Documents"
	RequestTypeOther     RequestType = "Other"
)

// Valid reports whether t is one of the known request types.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypePhotos, RequestTypeDocuments, RequestTypeOther:
		return true
	}
	return false
}

// TaskStatusCompleted is the label that stamps a completion date when a
// task moves into it. It is a convention of the seeded task statuses, not
// a schema constraint.
const TaskStatusCompleted = "Completed"

// Task is a work item tied to an inspection request.
type Task struct {
	Meta
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Status           string      `json:"status,omitempty"`
	RequestType      RequestType `json:"request_type,omitempty"`
	AssignedTo       *string     `json:"assigned_to,omitempty"`
	RelatedRequestID string      `json:"related_request_id"`
	DueDate          *time.Time  `json:"due_date,omitempty"`
	CompletedDate    *time.Time  `json:"completed_date,omitempty"`
}
