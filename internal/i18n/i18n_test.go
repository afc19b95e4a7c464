package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTimeBucketsAndRounding(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		en   string
		es   string
	}{
		{"seconds", 45 * time.Second, "45 seconds ago", "hace 45 segundos"},
		{"one second", time.Second, "1 second ago", "hace 1 segundo"},
		{"rounds up to minutes", 90 * time.Second, "2 minutes ago", "hace 2 minutos"},
		{"exact minute", time.Minute, "1 minute ago", "hace 1 minuto"},
		{"half hour", 30 * time.Minute, "30 minutes ago", "hace 30 minutos"},
		{"hours", 5 * time.Hour, "5 hours ago", "hace 5 horas"},
		{"rounds down to one day", 25 * time.Hour, "1 day ago", "hace 1 día"},
		{"days", 72 * time.Hour, "3 days ago", "hace 3 días"},
		{"rounds day count", 60 * time.Hour, "3 days ago", "hace 3 días"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from := now.Add(-tc.ago)
			assert.Equal(t, tc.en, RelativeTime("en", from, now))
			assert.Equal(t, tc.es, RelativeTime("es", from, now))
		})
	}
}

func TestRelativeTimeClampsFutureAndZero(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "1 second ago", RelativeTime("en", now, now))
	assert.Equal(t, "1 second ago", RelativeTime("en", now.Add(time.Minute), now))
}

func TestRelativeTimeUnknownLocaleFallsBack(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	from := now.Add(-2 * time.Hour)

	assert.Equal(t, "2 hours ago", RelativeTime("de", from, now))
}

func TestTranslationFallbacks(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Notificaciones", T("es", "feed.title"))
	assert.Equal("Notifications", T("en", "feed.title"))

	// Unknown locale falls back to English; unknown key echoes the key.
	assert.Equal("Notifications", T("pt", "feed.title"))
	assert.Equal("no.such.key", T("en", "no.such.key"))

	assert.Equal("3 sin leer", Tf("es", "feed.unread_badge", 3))
}

func TestFieldLabels(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Huésped", FieldLabel("es", "guest_id", "Guest"))
	assert.Equal("Guest", FieldLabel("en", "guest_id", "Guest"))

	// Unmapped fields keep the schema's English label.
	assert.Equal("Custom", FieldLabel("es", "custom_field", "Custom"))
}
