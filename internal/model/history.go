package model

import "time"

// Edit history entry statuses.
const (
	EditCommitted = "committed"
	EditFailed    = "failed"
)

// EditEntry is a journal record of one inline edit and its outcome.
type EditEntry struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Resource    string    `json:"resource" db:"resource"`
	RecordID    string    `json:"record_id" db:"record_id"`
	Field       string    `json:"field" db:"field"`
	Previous    string    `json:"previous" db:"previous"`
	Next        string    `json:"next" db:"next"`
	Status      string    `json:"status" db:"status"`
	Message     string    `json:"message" db:"message"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
