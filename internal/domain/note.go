package domain

// Note is a free-text comment on a task.
type Note struct {
	Meta
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}
