package domain

import "time"

// Meta holds the fields the entity store manages on every record.
// The store assigns ID and both timestamps on create; CreatedBy is stamped
// from the acting identity unless the caller supplies it explicitly
// (restore does, to preserve original ownership).
type Meta struct {
	ID          string    `json:"id"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
	CreatedBy   string    `json:"created_by"`
}
