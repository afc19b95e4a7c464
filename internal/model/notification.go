package model

import "time"

// Notification severity levels as reported by the platform.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Well-known notification categories. The wire format allows arbitrary
// category strings; these are the ones the platform emits today.
const (
	CategoryReservations = "reservations"
	CategoryPayments     = "payments"
	CategoryOperations   = "operations"
	CategorySystem       = "system"
)

// Notification is a feed entry describing platform activity within the
// active organization.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// EventID ties the notification to the platform event that produced it.
	EventID string `json:"event_id"`

	// EventType is the raw event name (e.g. "reservation.created").
	EventType string `json:"event_type"`

	// Category groups notifications for filtering (see Category* constants).
	Category string `json:"category"`

	// Severity is one of the Severity* constants.
	Severity string `json:"severity"`

	// Title is the short human-readable headline.
	Title string `json:"title"`

	// Body is the longer notification text.
	Body string `json:"body"`

	// LinkPath is a dashboard-relative path to the subject record.
	LinkPath string `json:"link_path"`

	// Payload carries event-specific details; shown only in detail views.
	Payload map[string]any `json:"payload,omitempty"`

	// ReadAt is when the user read the notification, nil while unread.
	ReadAt *time.Time `json:"read_at"`

	// CreatedAt is when the notification was delivered.
	CreatedAt time.Time `json:"created_at"`

	// OccurredAt is when the underlying event happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// Unread reports whether the notification has not been read yet.
func (n Notification) Unread() bool { return n.ReadAt == nil }
