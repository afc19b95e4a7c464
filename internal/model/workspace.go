package model

import "time"

// Workspace is a saved connection profile for one organization on the
// platform. The API token lives in the system keyring, never in the store.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BaseURL   string    `json:"base_url" db:"base_url"`
	OrgID     string    `json:"org_id" db:"org_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// IMAP settings for the booking-email importer.
	MailEnabled  bool   `json:"mail_enabled" db:"mail_enabled"`
	MailHost     string `json:"mail_host" db:"mail_host"`
	MailUsername string `json:"mail_username" db:"mail_username"`
	MailFolder   string `json:"mail_folder" db:"mail_folder"`
}
