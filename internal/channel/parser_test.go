package channel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
)

func airbnbMessage() Message {
	return Message{
		Envelope: Envelope{
			MessageID: "<abc123@airbnb.com>",
			Subject:   "Reservation confirmed - Ana Torres arrives Mar 15",
			From:      "Airbnb",
			FromAddr:  "automated@airbnb.com",
			Date:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		TextBody: `Your reservation is confirmed.

Guest: Ana Torres
Email: ana.torres@example.com
Listing: Sunny Apartment 4B
Check-in: Mon, Mar 15, 2026
Checkout: Mar 20, 2026
Payout: $1,450.50
`,
	}
}

func bookingMessage() Message {
	return Message{
		Envelope: Envelope{
			MessageID: "<res-778899@booking.com>",
			Subject:   "Nueva reserva: Edificio Sol",
			From:      "Booking.com",
			FromAddr:  "noreply@booking.com",
			Date:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
		TextBody: `Ha recibido una nueva reserva.

Huésped: María García
Propiedad: Edificio Sol 3B
Llegada: 15 de marzo de 2026
Salida: 20 de marzo de 2026
Importe: Gs. 1.450.000
`,
	}
}

func TestParseAirbnbReservation(t *testing.T) {
	assert := assert.New(t)

	draft, ok := ParseBookingEmail(airbnbMessage())
	assert.True(ok)
	assert.Equal(model.ChannelAirbnb, draft.Channel)
	assert.Equal("<abc123@airbnb.com>", draft.MessageID)
	assert.Equal("Ana Torres", draft.GuestName)
	assert.Equal("ana.torres@example.com", draft.GuestEmail)
	assert.Equal("Sunny Apartment 4B", draft.UnitHint)
	assert.Equal("2026-03-15", draft.CheckIn)
	assert.Equal("2026-03-20", draft.CheckOut)
	assert.InDelta(1450.50, draft.Amount, 0.001)
}

func TestParseBookingReservationSpanish(t *testing.T) {
	assert := assert.New(t)

	draft, ok := ParseBookingEmail(bookingMessage())
	assert.True(ok)
	assert.Equal(model.ChannelBooking, draft.Channel)
	assert.Equal("María García", draft.GuestName)
	assert.Equal("Edificio Sol 3B", draft.UnitHint)
	assert.Equal("2026-03-15", draft.CheckIn)
	assert.Equal("2026-03-20", draft.CheckOut)
	assert.InDelta(1450000, draft.Amount, 0.001)
}

func TestParseGuestFromAirbnbSubject(t *testing.T) {
	assert := assert.New(t)

	msg := airbnbMessage()
	msg.TextBody = "Check-in: Mar 15, 2026\nCheckout: Mar 20, 2026\n"

	draft, ok := ParseBookingEmail(msg)
	assert.True(ok)
	assert.Equal("Ana Torres", draft.GuestName)
}

func TestParseHTMLOnlyMessage(t *testing.T) {
	assert := assert.New(t)

	msg := bookingMessage()
	msg.TextBody = ""
	msg.HTMLBody = `<html><body>
<p>Hu&eacute;sped no disponible</p>
<div>Guest: Ana Torres</div>
<div>Llegada: 2026-03-15</div>
<div>Salida: 2026-03-20</div>
</body></html>`

	draft, ok := ParseBookingEmail(msg)
	assert.True(ok)
	assert.Equal("Ana Torres", draft.GuestName)
	assert.Equal("2026-03-15", draft.CheckIn)
	assert.Equal("2026-03-20", draft.CheckOut)
}

func TestParseIgnoresNonReservationMail(t *testing.T) {
	assert := assert.New(t)

	marketing := airbnbMessage()
	marketing.Envelope.Subject = "Discover weekly getaways near Asunción"
	_, ok := ParseBookingEmail(marketing)
	assert.False(ok)

	unknown := airbnbMessage()
	unknown.Envelope.FromAddr = "reservas@hotelsol.com.py"
	_, ok = ParseBookingEmail(unknown)
	assert.False(ok)

	spoofed := airbnbMessage()
	spoofed.Envelope.FromAddr = "automated@airbnb.com.evil.example"
	_, ok = ParseBookingEmail(spoofed)
	assert.False(ok)
}

func TestParseDateFormats(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		in   string
		want string
	}{
		{"2026-03-15", "2026-03-15"},
		{"Mar 15, 2026", "2026-03-15"},
		{"March 15 2026", "2026-03-15"},
		{"Mon, Mar 15, 2026 (3:00 PM)", "2026-03-15"},
		{"15 de marzo de 2026", "2026-03-15"},
		{"5 de setiembre de 2026", "2026-09-05"},
		{"15/03/2026", "2026-03-15"},
		{"5/3/2026", "2026-03-05"},
		{"sometime next week", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(tc.want, parseDate(tc.in), "input %q", tc.in)
	}
}

func TestParseAmountFormats(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		in   string
		want float64
	}{
		{"$1,450.50", 1450.50},
		{"Gs. 450.000", 450000},
		{"Gs 1.450.000", 1450000},
		{"1.450.000,75", 1450000.75},
		{"450", 450},
		{"45.50 USD", 45.50},
		{"no figure", 0},
	}
	for _, tc := range cases {
		assert.InDelta(tc.want, parseAmount(tc.in), 0.001, "input %q", tc.in)
	}
}

type fakeFetcher struct {
	messages []Message
	err      error
}

func (f *fakeFetcher) FetchMessages(context.Context, time.Time, int) ([]Message, error) {
	return f.messages, f.err
}

func TestImporterScanDeduplicates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(err)
	defer st.Close()

	ctx := context.Background()
	wsID := uuid.NewString()
	require.NoError(st.UpsertWorkspace(ctx, model.Workspace{
		ID:      wsID,
		Name:    "main",
		BaseURL: "https://api.example.com",
		OrgID:   "org-1",
	}))

	marketing := airbnbMessage()
	marketing.Envelope.Subject = "Your monthly hosting report"

	fetcher := &fakeFetcher{messages: []Message{
		airbnbMessage(),
		bookingMessage(),
		marketing,
	}}
	im := NewImporter(fetcher, st, wsID)

	created, err := im.Scan(ctx, time.Now().Add(-24*time.Hour), 50)
	require.NoError(err)
	assert.Equal(2, created)

	// A second scan over the same mailbox finds nothing new.
	created, err = im.Scan(ctx, time.Now().Add(-24*time.Hour), 50)
	require.NoError(err)
	assert.Equal(0, created)

	drafts, err := st.GetDrafts(ctx, store.DraftFilter{WorkspaceID: wsID})
	require.NoError(err)
	assert.Len(drafts, 2)
	for _, d := range drafts {
		assert.Equal(model.DraftNew, d.Status)
	}
}
