package channel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gimenezdev/rentalops/internal/model"
)

// Label patterns accepted in both English (Airbnb) and Spanish
// (Booking.com sends es-PY notifications for Paraguayan accounts).
var (
	guestRe = regexp.MustCompile(
		`(?im)^\s*(?:guest|hu[eé]sped)\s*[:\-]\s*(.+)$`)
	checkInRe = regexp.MustCompile(
		`(?im)^\s*(?:check[ -]?in|llegada|entrada)\s*[:\-]\s*(.+)$`)
	checkOutRe = regexp.MustCompile(
		`(?im)^\s*(?:check[ -]?out|salida)\s*[:\-]\s*(.+)$`)
	amountRe = regexp.MustCompile(
		`(?im)^\s*(?:total|amount|payout|monto|importe)\s*[:\-]\s*(.+)$`)
	unitRe = regexp.MustCompile(
		`(?im)^\s*(?:listing|property|unit|propiedad|unidad|alojamiento)\s*[:\-]\s*(.+)$`)
	emailRe = regexp.MustCompile(
		`(?i)(?:e-?mail|correo)\s*[:\-]\s*([\w.+-]+@[\w.-]+\.[a-zA-Z]{2,})`)

	// Airbnb subject: "Reservation confirmed - Ana Torres arrives Mar 15"
	airbnbSubjectGuestRe = regexp.MustCompile(
		`(?i)reservation confirmed\s*[-–]\s*(.+?)\s+arrives`)

	isoDateRe     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	englishDateRe = regexp.MustCompile(
		`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})`)
	slashDateRe   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	spanishDateRe = regexp.MustCompile(
		`(?i)(\d{1,2})\s+de\s+([a-záéíóú]+)(?:\s+de\s+(\d{4}))?`)

	nonAmountRe = regexp.MustCompile(`[^0-9.,]`)
)

var englishMonths = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August,
	"septiembre": time.September, "setiembre": time.September,
	"octubre": time.October, "noviembre": time.November,
	"diciembre": time.December,
}

var reservationKeywords = []string{
	"reservation confirmed",
	"new reservation",
	"new booking",
	"booking confirmation",
	"instant booking",
	"reserva confirmada",
	"nueva reserva",
	"confirmación de reserva",
	"confirmacion de reserva",
}

// ParseBookingEmail inspects a mailbox message and, when it is a
// reservation notification from a recognized channel, extracts a booking
// draft. WorkspaceID and Status are left for the importer to fill. The
// second return is false for anything that is not a reservation email.
func ParseBookingEmail(msg Message) (model.BookingDraft, bool) {
	ch, ok := detectChannel(msg.Envelope.FromAddr)
	if !ok {
		return model.BookingDraft{}, false
	}
	if !isReservationSubject(msg.Envelope.Subject) {
		return model.BookingDraft{}, false
	}

	body := msg.TextBody
	if body == "" {
		body = stripTags(msg.HTMLBody)
	}

	draft := model.BookingDraft{
		MessageID:  msg.Envelope.MessageID,
		Channel:    ch,
		GuestName:  firstMatch(guestRe, body),
		GuestEmail: firstMatch(emailRe, body),
		UnitHint:   firstMatch(unitRe, body),
		CheckIn:    parseDate(firstMatch(checkInRe, body)),
		CheckOut:   parseDate(firstMatch(checkOutRe, body)),
		Amount:     parseAmount(firstMatch(amountRe, body)),
		ReceivedAt: msg.Envelope.Date,
	}

	if draft.GuestName == "" {
		if m := airbnbSubjectGuestRe.FindStringSubmatch(msg.Envelope.Subject); m != nil {
			draft.GuestName = strings.TrimSpace(m[1])
		}
	}

	return draft, true
}

// detectChannel maps the sender domain to a booking channel.
func detectChannel(fromAddr string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(fromAddr))
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return "", false
	}
	domain := addr[at+1:]

	switch {
	case domain == "airbnb.com" || strings.HasSuffix(domain, ".airbnb.com"):
		return model.ChannelAirbnb, true
	case domain == "booking.com" || strings.HasSuffix(domain, ".booking.com"):
		return model.ChannelBooking, true
	}
	return "", false
}

func isReservationSubject(subject string) bool {
	s := strings.ToLower(subject)
	for _, kw := range reservationKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseDate normalizes the many date renderings channels use to
// YYYY-MM-DD. Returns "" when no date is recognized.
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := isoDateRe.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// "Mar 15, 2026", "March 15 2026"
	if m := englishDateRe.FindStringSubmatch(s); m != nil {
		month := englishMonths[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := buildDate(year, month, day); ok {
			return d
		}
	}

	// "15 de marzo de 2026"
	if m := spanishDateRe.FindStringSubmatch(s); m != nil {
		month, known := spanishMonths[strings.ToLower(m[2])]
		if known {
			day, _ := strconv.Atoi(m[1])
			year := time.Now().Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			if d, ok := buildDate(year, month, day); ok {
				return d
			}
		}
	}

	// "15/03/2026", day first as written in Paraguay.
	if m := slashDateRe.FindString(s); m != "" {
		if t, err := time.Parse("2/1/2006", m); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}

func buildDate(year int, month time.Month, day int) (string, bool) {
	if day < 1 || day > 31 || year < 2000 || year > 2100 {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// Normalized away, e.g. Feb 30.
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// parseAmount reads a money string in either convention: "1,450.50"
// (Airbnb, comma grouping) or "1.450.000" (guaraní rendering with dot
// grouping and comma decimals). Returns 0 when nothing numeric remains.
func parseAmount(s string) float64 {
	cleaned := nonAmountRe.ReplaceAllString(s, "")
	cleaned = strings.Trim(cleaned, ".,")
	if cleaned == "" {
		return 0
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0:
		// A trailing group of three digits is grouping, not decimals:
		// "450.000" is four hundred fifty thousand guaraníes.
		if len(cleaned)-lastDot-1 == 3 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	case lastComma >= 0:
		if len(cleaned)-lastComma-1 == 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

var (
	breakTagRe = regexp.MustCompile(`(?is)<(?:br|/p|/div|/tr)[^>]*>`)
	tagRe      = regexp.MustCompile(`(?s)<[^>]*>`)
)

// stripTags is a crude HTML-to-text fallback used when a message has no
// plain text part.
func stripTags(s string) string {
	s = breakTagRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}
