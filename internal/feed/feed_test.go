package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/model"
)

func item(id string, read bool) model.Notification {
	n := model.Notification{
		ID:        id,
		EventType: "reservation.created",
		Category:  model.CategoryReservations,
		Severity:  model.SeverityInfo,
		Title:     "notification " + id,
		CreatedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
	if read {
		t := n.CreatedAt.Add(time.Minute)
		n.ReadAt = &t
	}
	return n
}

func page(cursor string, items ...model.Notification) *api.NotificationPage {
	return &api.NotificationPage{Data: items, NextCursor: cursor}
}

func loadedFeed(t *testing.T, unread int, items ...model.Notification) *Feed {
	t.Helper()
	f := New()
	epoch := f.StartLoad()
	require.True(t, f.ApplyFull(epoch, page("cursor-1", items...), unread))
	return f
}

func TestFullLoadReplacesItemsAndUnread(t *testing.T) {
	assert := assert.New(t)
	f := New()

	assert.Equal(PhaseIdle, f.Phase())
	epoch := f.StartLoad()
	assert.Equal(PhaseLoading, f.Phase())

	ok := f.ApplyFull(epoch, page("c1", item("n1", false), item("n2", true)), 5)
	assert.True(ok)
	assert.Equal(PhaseLoaded, f.Phase())
	assert.Len(f.Items(), 2)
	assert.Equal(5, f.Unread())
	assert.True(f.HasMore())
}

func TestLoadMoreAppendsWithoutDuplicates(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 2, item("n1", false), item("n2", false))

	cursor, epoch, ok := f.StartLoadMore()
	require.True(t, ok)
	assert.Equal("cursor-1", cursor)
	assert.Equal(PhaseLoadingMore, f.Phase())

	// The older page overlaps the window by one item.
	ok = f.ApplyMore(epoch, page("", item("n2", false), item("n3", true)))
	assert.True(ok)

	ids := make([]string, 0, len(f.Items()))
	for _, n := range f.Items() {
		ids = append(ids, n.ID)
	}
	assert.Equal([]string{"n1", "n2", "n3"}, ids)

	// Exhausted cursor removes the control; unread is untouched.
	assert.False(f.HasMore())
	assert.Equal(2, f.Unread())
	assert.Equal(PhaseLoaded, f.Phase())
}

func TestLoadMoreUnavailableWhenExhausted(t *testing.T) {
	f := New()
	epoch := f.StartLoad()
	require.True(t, f.ApplyFull(epoch, page("", item("n1", false)), 1))

	_, _, ok := f.StartLoadMore()
	assert.False(t, ok)
}

func TestMarkReadIsIdempotentAndClampsAtZero(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 1, item("n1", false), item("n2", false))
	now := time.Now()

	assert.True(f.MarkRead("n1", now))
	assert.Equal(0, f.Unread())
	assert.NotNil(f.Items()[0].ReadAt)

	// Marking the same item again changes nothing and dispatches nothing.
	assert.False(f.MarkRead("n1", now))
	assert.Equal(0, f.Unread())

	// The badge never goes negative even when the server undercounted.
	assert.True(f.MarkRead("n2", now))
	assert.Equal(0, f.Unread())
}

func TestUnreadCountIsServerAuthoritative(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 5, item("n1", false))

	f.MarkRead("n1", time.Now())
	assert.Equal(4, f.Unread())

	// Only a server refresh may raise the badge.
	ok := f.ApplySilent(f.Epoch(), page("", item("n1", true), item("n9", false)), 9)
	assert.True(ok)
	assert.Equal(9, f.Unread())
}

func TestReadItemStaysVisibleUntilNextFetch(t *testing.T) {
	assert := assert.New(t)
	f := New()
	f.SetFilters(StatusUnread, "")
	epoch := f.StartLoad()
	require.True(t, f.ApplyFull(epoch, page("", item("n1", false)), 1))

	f.MarkRead("n1", time.Now())

	// The local filter is not re-applied; the item remains on screen.
	require.Len(t, f.Items(), 1)
	assert.NotNil(f.Items()[0].ReadAt)
	assert.Equal(StatusUnread, f.Status())
}

func TestStaleEpochResponsesAreDropped(t *testing.T) {
	assert := assert.New(t)
	f := New()

	oldEpoch := f.StartLoad()
	f.SetFilters(StatusUnread, model.CategoryPayments)
	newEpoch := f.StartLoad()

	// The superseded fetch resolves late and must not win.
	assert.False(f.ApplyFull(oldEpoch, page("", item("stale", false)), 1))
	assert.Empty(f.Items())

	assert.True(f.ApplyFull(newEpoch, page("", item("fresh", false)), 1))
	require.Len(t, f.Items(), 1)
	assert.Equal("fresh", f.Items()[0].ID)
}

func TestSilentRefreshDuringLoadMoreOnlyUpdatesUnread(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 2, item("n1", false), item("n2", false))

	_, epoch, ok := f.StartLoadMore()
	require.True(t, ok)

	// A background cycle lands mid-append: items must stay intact.
	assert.True(f.ApplySilent(f.Epoch(), page("", item("n9", false)), 7))
	assert.Len(f.Items(), 2)
	assert.Equal(7, f.Unread())

	assert.True(f.ApplyMore(epoch, page("", item("n3", false))))
	assert.Len(f.Items(), 3)
}

func TestFailureKeepsItemsAndCursor(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 1, item("n1", false))

	epoch := f.StartLoad()
	assert.True(f.Fail(epoch, errors.New("connection refused")))

	assert.Equal(PhaseFailed, f.Phase())
	assert.Error(f.Err())
	assert.Len(f.Items(), 1)

	// Retry succeeds and clears the error.
	epoch = f.StartLoad()
	assert.True(f.ApplyFull(epoch, page("", item("n1", false)), 1))
	assert.NoError(f.Err())
	assert.Equal(PhaseLoaded, f.Phase())
}

func TestLoadMoreFailureKeepsCursorForRetry(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 1, item("n1", false))

	_, epoch, ok := f.StartLoadMore()
	require.True(t, ok)
	assert.True(f.Fail(epoch, errors.New("timeout")))

	assert.Equal(PhaseFailed, f.Phase())
	assert.True(f.HasMore())
}

func TestMarkAllRead(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 4, item("n1", false), item("n2", true), item("n3", false))
	now := time.Now()

	assert.True(f.MarkAllRead(now))
	assert.Equal(0, f.Unread())
	for _, n := range f.Items() {
		assert.NotNil(n.ReadAt)
	}

	// Nothing unread: nothing to dispatch.
	assert.False(f.MarkAllRead(now))
}

func TestApplyMoreIgnoredAfterReload(t *testing.T) {
	assert := assert.New(t)
	f := loadedFeed(t, 1, item("n1", false))

	_, moreEpoch, ok := f.StartLoadMore()
	require.True(t, ok)

	// A full reload supersedes the append in flight.
	epoch := f.StartLoad()
	require.True(t, f.ApplyFull(epoch, page("", item("n1", false)), 1))

	assert.False(f.ApplyMore(moreEpoch, page("", item("n2", false))))
	assert.Len(f.Items(), 1)
}

func TestConfirmReadAdoptsServerTimestamp(t *testing.T) {
	f := loadedFeed(t, 1, item("n1", false))

	f.MarkRead("n1", time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC))
	serverTime := time.Date(2026, 2, 10, 13, 0, 2, 0, time.UTC)
	f.ConfirmRead("n1", serverTime)

	require.NotNil(t, f.Items()[0].ReadAt)
	assert.Equal(t, serverTime, *f.Items()[0].ReadAt)
}
