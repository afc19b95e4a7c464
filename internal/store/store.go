package store

import (
	"context"

	"github.com/gimenezdev/rentalops/internal/model"
)

// EditFilter controls filtering and pagination for edit history queries.
type EditFilter struct {
	WorkspaceID string
	Resource    *string
	Status      *string // "committed", "failed", or nil (all)
	Limit       int
	Offset      int
}

// DraftFilter controls filtering for booking draft queries.
type DraftFilter struct {
	WorkspaceID string
	Status      *string // "new", "imported", "dismissed", or nil (all)
}

// Store defines the local persistence interface: workspace profiles, the
// inline-edit journal, and booking drafts parsed from channel emails.
type Store interface {
	// === Workspaces ===

	UpsertWorkspace(ctx context.Context, ws model.Workspace) error
	GetWorkspaces(ctx context.Context) ([]model.Workspace, error)
	GetWorkspaceByID(ctx context.Context, id string) (*model.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error

	// === Edit history ===

	AppendEdit(ctx context.Context, entry model.EditEntry) error
	GetEdits(ctx context.Context, filter EditFilter) ([]model.EditEntry, error)

	// === Booking drafts ===

	// CreateDraft inserts a draft unless one with the same workspace and
	// message ID already exists; it reports whether a row was inserted.
	CreateDraft(ctx context.Context, draft model.BookingDraft) (bool, error)
	GetDrafts(ctx context.Context, filter DraftFilter) ([]model.BookingDraft, error)
	UpdateDraftStatus(ctx context.Context, id, status, reservationID string) error

	Close() error
}
