package feed

import (
	"time"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/model"
)

// Status filter values understood by the platform.
const (
	StatusAll    = "all"
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Phase describes what the feed is currently doing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoadingMore
	PhaseLoaded
	PhaseFailed
)

// Feed is the notification center's client-side state: one page window of
// items, cursor pagination, filters, and the unread badge. Items mutate
// only through the methods below, all called from the update loop
// goroutine; fetch results are applied with the epoch they were dispatched
// under so stale responses are discarded.
//
// The unread count is authoritative from the server: full and silent
// refreshes replace it, mark-read decrements it locally (never below
// zero), and nothing else touches it.
type Feed struct {
	items      []model.Notification
	nextCursor string
	unread     int

	status   string
	category string

	phase Phase
	err   error

	epoch int
}

// New returns an idle feed showing all categories and statuses.
func New() *Feed {
	return &Feed{status: StatusAll}
}

// Items returns the loaded notifications, newest first. The slice is owned
// by the feed; callers must not mutate it.
func (f *Feed) Items() []model.Notification { return f.items }

// Unread returns the unread badge count.
func (f *Feed) Unread() int { return f.unread }

// Phase returns the current loading phase.
func (f *Feed) Phase() Phase { return f.phase }

// Err returns the last visible fetch error, nil after any success.
func (f *Feed) Err() error { return f.err }

// HasMore reports whether an older page is available.
func (f *Feed) HasMore() bool { return f.nextCursor != "" }

// Status returns the active read-state filter.
func (f *Feed) Status() string { return f.status }

// Category returns the active category filter, "" for all.
func (f *Feed) Category() string { return f.category }

// Epoch returns the current fetch epoch. Results must be applied with the
// epoch that was current when their fetch was dispatched.
func (f *Feed) Epoch() int { return f.epoch }

// Query returns the fetch parameters for the current filters, without a
// cursor.
func (f *Feed) Query(limit int) api.NotificationQuery {
	return api.NotificationQuery{
		Limit:    limit,
		Status:   f.status,
		Category: f.category,
	}
}

// SetFilters changes the read-state and category filters. The caller must
// follow with StartLoad to fetch the filtered collection.
func (f *Feed) SetFilters(status, category string) {
	f.status = status
	f.category = category
}

// StartLoad begins a visible full load (mount, filter change, manual
// refresh). It bumps the epoch so responses of superseded fetches are
// dropped. Items stay on screen until the new page arrives.
func (f *Feed) StartLoad() int {
	f.epoch++
	f.phase = PhaseLoading
	f.err = nil
	return f.epoch
}

// StartLoadMore begins fetching the next older page. It returns the cursor
// to request and false when no page is available or the feed is busy.
func (f *Feed) StartLoadMore() (cursor string, epoch int, ok bool) {
	if f.phase != PhaseLoaded || f.nextCursor == "" {
		return "", 0, false
	}
	f.phase = PhaseLoadingMore
	f.err = nil
	return f.nextCursor, f.epoch, true
}

// ApplyFull installs a visible load's result: items and cursor replaced,
// unread replaced from the server. Stale epochs are ignored.
func (f *Feed) ApplyFull(epoch int, page *api.NotificationPage, unread int) bool {
	if epoch != f.epoch {
		return false
	}
	f.items = dedupe(nil, page.Data)
	f.nextCursor = page.NextCursor
	f.unread = unread
	f.phase = PhaseLoaded
	f.err = nil
	return true
}

// ApplyMore appends an older page, skipping items already present, and
// replaces the cursor. The unread count is not touched.
func (f *Feed) ApplyMore(epoch int, page *api.NotificationPage) bool {
	if epoch != f.epoch || f.phase != PhaseLoadingMore {
		return false
	}
	f.items = dedupe(f.items, page.Data)
	f.nextCursor = page.NextCursor
	f.phase = PhaseLoaded
	f.err = nil
	return true
}

// ApplySilent installs a background refresh. While an older page is being
// fetched only the unread count is adopted, so the append in flight is not
// invalidated. A visible load keeps its spinner.
func (f *Feed) ApplySilent(epoch int, page *api.NotificationPage, unread int) bool {
	if epoch != f.epoch {
		return false
	}
	if f.phase == PhaseLoadingMore {
		f.unread = unread
		return true
	}
	f.items = dedupe(nil, page.Data)
	f.nextCursor = page.NextCursor
	f.unread = unread
	if f.phase != PhaseLoading {
		f.phase = PhaseLoaded
	}
	f.err = nil
	return true
}

// Fail records a visible fetch failure. Loaded items stay on screen and the
// cursor is kept so the fetch can be retried. Silent refresh failures must
// not be routed here; they are swallowed by the caller.
func (f *Feed) Fail(epoch int, err error) bool {
	if epoch != f.epoch {
		return false
	}
	f.phase = PhaseFailed
	f.err = err
	return true
}

// MarkRead optimistically marks one notification as read: its read
// timestamp is set and the unread badge decrements (never below zero).
// It reports whether a request must be dispatched; marking an already-read
// item changes nothing. Items are not re-filtered locally, so under the
// "unread" filter a just-read item stays visible until the next fetch.
func (f *Feed) MarkRead(id string, now time.Time) bool {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if f.items[i].ReadAt != nil {
			return false
		}
		t := now
		f.items[i].ReadAt = &t
		if f.unread > 0 {
			f.unread--
		}
		return true
	}
	return false
}

// ConfirmRead adopts the server's read timestamp after a successful
// mark-read. A missing or re-fetched item is left alone.
func (f *Feed) ConfirmRead(id string, readAt time.Time) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].ReadAt != nil {
			t := readAt
			f.items[i].ReadAt = &t
			return
		}
	}
}

// MarkAllRead optimistically marks every loaded notification as read and
// zeroes the unread badge. It reports whether a request must be dispatched;
// with nothing unread it changes nothing. On request failure the caller
// must force a refresh to resynchronize.
func (f *Feed) MarkAllRead(now time.Time) bool {
	dirty := f.unread > 0
	for i := range f.items {
		if f.items[i].ReadAt == nil {
			t := now
			f.items[i].ReadAt = &t
			dirty = true
		}
	}
	f.unread = 0
	return dirty
}

// dedupe appends src items to dst, skipping ids already present in dst.
func dedupe(dst, src []model.Notification) []model.Notification {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, n := range dst {
		seen[n.ID] = struct{}{}
	}
	for _, n := range src {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		dst = append(dst, n)
	}
	return dst
}
