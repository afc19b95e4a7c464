package channel

import "time"

// Envelope holds the parsed envelope data from an IMAP message.
type Envelope struct {
	MessageID string
	Subject   string
	From      string
	FromAddr  string
	Date      time.Time
	UID       uint32
}

// Message holds an email's envelope and decoded bodies, enough for the
// booking parser to work with.
type Message struct {
	Envelope Envelope
	TextBody string
	HTMLBody string
}
