package domain

// ClientGraph is the derived client-profile aggregate: every inspection
// request sharing one client name plus the documents, tasks, and notes
// that transitively reference those requests. It is computed on demand by
// the cascade collector and never stored as its own entity.
type ClientGraph struct {
	ClientName string
	Requests   []InspectionRequest
	Documents  []ClientDocument
	Tasks      []Task
	Notes      []Note
}

// Empty reports whether the client has no live requests. An empty graph
// means "nothing to archive" and callers treat it as a no-op.
func (g *ClientGraph) Empty() bool {
	return len(g.Requests) == 0
}

// Counts returns the per-tier record counts (requests, documents, tasks, notes).
func (g *ClientGraph) Counts() (int, int, int, int) {
	return len(g.Requests), len(g.Documents), len(g.Tasks), len(g.Notes)
}

// ClientSummary is one row of the client directory: a client name with the
// property address of its most recently updated request.
type ClientSummary struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
