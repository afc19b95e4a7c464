package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimenezdev/rentalops/internal/model"
)

// newTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

func testWorkspace() model.Workspace {
	return model.Workspace{
		ID:      "ws-1",
		Name:    "Asunción",
		BaseURL: "https://api.example.com",
		OrgID:   "org-9",
	}
}

func TestWorkspaceRoundTrip(t *testing.T) {
	assert := assert.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	ws := testWorkspace()
	ws.MailEnabled = true
	ws.MailHost = "imap.example.com:993"
	ws.MailUsername = "ops@example.com"
	require.NoError(t, s.UpsertWorkspace(ctx, ws))

	got, err := s.GetWorkspaceByID(ctx, "ws-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal("Asunción", got.Name)
	assert.Equal("org-9", got.OrgID)
	assert.True(got.MailEnabled)
	assert.Equal("INBOX", got.MailFolder)

	// Upsert replaces in place.
	ws.Name = "Asunción Centro"
	require.NoError(t, s.UpsertWorkspace(ctx, ws))
	all, err := s.GetWorkspaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal("Asunción Centro", all[0].Name)
}

func TestUpsertWorkspaceKeepsJournal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ws := testWorkspace()
	require.NoError(t, s.UpsertWorkspace(ctx, ws))
	require.NoError(t, s.AppendEdit(ctx, model.EditEntry{
		WorkspaceID: "ws-1", Resource: "properties", RecordID: "p1",
		Field: "name", Status: model.EditCommitted,
	}))

	// Editing the profile must not cascade through the journal.
	ws.Name = "Asunción Centro"
	require.NoError(t, s.UpsertWorkspace(ctx, ws))

	edits, err := s.GetEdits(ctx, EditFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	assert.Len(t, edits, 1)
}

func TestGetWorkspaceByIDMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetWorkspaceByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertWorkspaceGeneratesID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ws := testWorkspace()
	ws.ID = ""
	require.NoError(t, s.UpsertWorkspace(ctx, ws))

	all, err := s.GetWorkspaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
}

func TestEditHistoryAppendAndFilter(t *testing.T) {
	assert := assert.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertWorkspace(ctx, testWorkspace()))

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	entries := []model.EditEntry{
		{WorkspaceID: "ws-1", Resource: "properties", RecordID: "p1",
			Field: "name", Previous: "Casa Sur", Next: "Casa Norte",
			Status: model.EditCommitted, CreatedAt: base},
		{WorkspaceID: "ws-1", Resource: "properties", RecordID: "p1",
			Field: "status", Previous: "active", Next: "inactive",
			Status: model.EditFailed, Message: "status locked",
			CreatedAt: base.Add(time.Minute)},
		{WorkspaceID: "ws-1", Resource: "units", RecordID: "u1",
			Field: "capacity", Previous: "2", Next: "4",
			Status: model.EditCommitted, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, s.AppendEdit(ctx, e))
	}

	// Newest first, all of them.
	all, err := s.GetEdits(ctx, EditFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal("capacity", all[0].Field)

	resource := "properties"
	byResource, err := s.GetEdits(ctx, EditFilter{
		WorkspaceID: "ws-1", Resource: &resource,
	})
	require.NoError(t, err)
	assert.Len(byResource, 2)

	failed := model.EditFailed
	byStatus, err := s.GetEdits(ctx, EditFilter{
		WorkspaceID: "ws-1", Status: &failed,
	})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal("status locked", byStatus[0].Message)

	limited, err := s.GetEdits(ctx, EditFilter{WorkspaceID: "ws-1", Limit: 2})
	require.NoError(t, err)
	assert.Len(limited, 2)
}

func TestDraftDedupeByMessageID(t *testing.T) {
	assert := assert.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertWorkspace(ctx, testWorkspace()))

	draft := model.BookingDraft{
		WorkspaceID: "ws-1",
		MessageID:   "<booking-123@airbnb.com>",
		Channel:     model.ChannelAirbnb,
		GuestName:   "María González",
		CheckIn:     "2026-03-01",
		CheckOut:    "2026-03-04",
		Amount:      450000,
		ReceivedAt:  time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}

	inserted, err := s.CreateDraft(ctx, draft)
	require.NoError(t, err)
	assert.True(inserted)

	// A rescan of the mailbox sees the same message again.
	inserted, err = s.CreateDraft(ctx, draft)
	require.NoError(t, err)
	assert.False(inserted)

	drafts, err := s.GetDrafts(ctx, DraftFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(model.DraftNew, drafts[0].Status)
	assert.Equal("María González", drafts[0].GuestName)
}

func TestDraftStatusLifecycle(t *testing.T) {
	assert := assert.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertWorkspace(ctx, testWorkspace()))

	draft := model.BookingDraft{
		ID:          "d1",
		WorkspaceID: "ws-1",
		MessageID:   "<m1>",
		Channel:     model.ChannelBooking,
		ReceivedAt:  time.Now().UTC(),
	}
	_, err := s.CreateDraft(ctx, draft)
	require.NoError(t, err)

	require.NoError(t, s.UpdateDraftStatus(ctx, "d1", model.DraftImported, "res-42"))

	imported := model.DraftImported
	drafts, err := s.GetDrafts(ctx, DraftFilter{
		WorkspaceID: "ws-1", Status: &imported,
	})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal("res-42", drafts[0].ReservationID)

	fresh := model.DraftNew
	none, err := s.GetDrafts(ctx, DraftFilter{WorkspaceID: "ws-1", Status: &fresh})
	require.NoError(t, err)
	assert.Empty(none)
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	assert := assert.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertWorkspace(ctx, testWorkspace()))

	require.NoError(t, s.AppendEdit(ctx, model.EditEntry{
		WorkspaceID: "ws-1", Resource: "properties", RecordID: "p1",
		Field: "name", Status: model.EditCommitted,
	}))
	_, err := s.CreateDraft(ctx, model.BookingDraft{
		WorkspaceID: "ws-1", MessageID: "<m1>", ReceivedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorkspace(ctx, "ws-1"))

	edits, err := s.GetEdits(ctx, EditFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	assert.Empty(edits)

	drafts, err := s.GetDrafts(ctx, DraftFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	assert.Empty(drafts)
}
