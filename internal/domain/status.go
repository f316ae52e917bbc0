package domain

// StatusType partitions status options into the two record domains that
// carry a status label.
type StatusType string

const (
	StatusTypeInspection StatusType = "inspection"
	StatusTypeTask       StatusType = "task"
)

// Valid reports whether t is one of the known status types.
func (t StatusType) Valid() bool {
	return t == StatusTypeInspection || t == StatusTypeTask
}

// StatusOption defines a selectable status label with its badge colors.
// Records reference the label text itself, not the option's ID, so a label
// change must be propagated to every referencing record.
type StatusOption struct {
	Meta
	Type      StatusType `json:"type"`
	Label     string     `json:"label"`
	ColorBg   string     `json:"color_bg,omitempty"`
	ColorText string     `json:"color_text,omitempty"`
}
