package domain

import "time"

// ArchivedData is the snapshot stored inside an ArchivedProfile: full
// copies of every record in the client graph, original identifiers
// included. The identifiers are kept for traceability and for relinking on
// restore; they are never reused as live identifiers.
type ArchivedData struct {
	Requests  []InspectionRequest `json:"requests"`
	Documents []ClientDocument    `json:"documents"`
	Tasks     []Task              `json:"tasks"`
	Notes     []Note              `json:"notes"`
}

// ArchivedProfile is the single record an archived client profile
// collapses into. Restoring recreates the graph and deletes this record.
type ArchivedProfile struct {
	Meta
	ClientName          string       `json:"client_name"`
	ArchivedData        ArchivedData `json:"archived_data"`
	DeletedBy           string       `json:"deleted_by"`
	OriginalCreatedDate time.Time    `json:"original_created_date"`
}
