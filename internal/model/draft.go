package model

import "time"

// Booking draft lifecycle statuses.
const (
	DraftNew       = "new"
	DraftImported  = "imported"
	DraftDismissed = "dismissed"
)

// Booking channels recognized by the email importer.
const (
	ChannelAirbnb  = "airbnb"
	ChannelBooking = "booking"
	ChannelDirect  = "direct"
)

// BookingDraft is a reservation candidate parsed from a channel
// notification email, awaiting review before it is pushed to the platform.
type BookingDraft struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	MessageID   string    `json:"message_id" db:"message_id"`
	Channel     string    `json:"channel" db:"channel"`
	GuestName   string    `json:"guest_name" db:"guest_name"`
	GuestEmail  string    `json:"guest_email" db:"guest_email"`
	UnitHint    string    `json:"unit_hint" db:"unit_hint"`
	CheckIn     string    `json:"check_in" db:"check_in"`
	CheckOut    string    `json:"check_out" db:"check_out"`
	Amount      float64   `json:"amount" db:"amount"`
	Status      string    `json:"status" db:"status"`
	// ReservationID is set once the draft has been imported.
	ReservationID string    `json:"reservation_id" db:"reservation_id"`
	ReceivedAt    time.Time `json:"received_at" db:"received_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
