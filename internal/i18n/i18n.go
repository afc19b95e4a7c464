package i18n

import (
	"fmt"
	"math"
	"time"
)

// fallback is used for unknown locales and missing keys.
const fallback = "en"

// T returns the locale's string for key, falling back to English, then to
// the key itself.
func T(locale, key string) string {
	if s, ok := catalog[locale][key]; ok {
		return s
	}
	if s, ok := catalog[fallback][key]; ok {
		return s
	}
	return key
}

// Tf formats the locale's string for key with fmt arguments.
func Tf(locale, key string, args ...any) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// FieldLabel returns the localized column header for a wire field name,
// falling back to the schema's English label.
func FieldLabel(locale, name, englishLabel string) string {
	if s, ok := catalog[locale]["field."+name]; ok {
		return s
	}
	if locale == fallback && englishLabel != "" {
		return englishLabel
	}
	if s, ok := catalog[fallback]["field."+name]; ok {
		return s
	}
	return englishLabel
}

// unitNames holds singular/plural time unit names per locale.
var unitNames = map[string]map[string][2]string{
	"en": {
		"second": {"second", "seconds"},
		"minute": {"minute", "minutes"},
		"hour":   {"hour", "hours"},
		"day":    {"day", "days"},
	},
	"es": {
		"second": {"segundo", "segundos"},
		"minute": {"minuto", "minutos"},
		"hour":   {"hora", "horas"},
		"day":    {"día", "días"},
	},
}

// RelativeTime renders how long ago t was. The unit is chosen by the raw
// elapsed time (under a minute: seconds; under an hour: minutes; under a
// day: hours; otherwise days) and the count rounds to nearest, so 90
// seconds is "2 minutes ago" and 25 hours is "1 day ago".
func RelativeTime(locale string, t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	secs := d.Seconds()

	var n int
	var unit string
	switch {
	case secs < 60:
		n = round(secs)
		unit = "second"
	case secs < 3600:
		n = round(secs / 60)
		unit = "minute"
	case secs < 86400:
		n = round(secs / 3600)
		unit = "hour"
	default:
		n = round(secs / 86400)
		unit = "day"
	}
	if n < 1 {
		n = 1
	}

	names, ok := unitNames[locale]
	if !ok {
		names = unitNames[fallback]
	}
	name := names[unit][1]
	if n == 1 {
		name = names[unit][0]
	}

	if locale == "es" {
		return fmt.Sprintf("hace %d %s", n, name)
	}
	return fmt.Sprintf("%d %s ago", n, name)
}

func round(x float64) int {
	return int(math.Round(x))
}
