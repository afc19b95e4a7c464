package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
)

// MessageFetcher is the mailbox surface the importer needs. *IMAPClient
// implements it.
type MessageFetcher interface {
	FetchMessages(ctx context.Context, since time.Time, limit int) ([]Message, error)
}

// Importer scans a workspace mailbox for channel reservation emails and
// records them as booking drafts.
type Importer struct {
	client      MessageFetcher
	store       store.Store
	workspaceID string
}

func NewImporter(client MessageFetcher, st store.Store, workspaceID string) *Importer {
	return &Importer{
		client:      client,
		store:       st,
		workspaceID: workspaceID,
	}
}

// Scan fetches messages received since the given time, parses reservation
// notifications, and stores each as a draft. Messages already seen are
// skipped by message ID. Returns the number of new drafts.
func (im *Importer) Scan(ctx context.Context, since time.Time, limit int) (int, error) {
	messages, err := im.client.FetchMessages(ctx, since, limit)
	if err != nil {
		return 0, fmt.Errorf("scanning mailbox: %w", err)
	}

	created := 0
	for _, msg := range messages {
		draft, ok := ParseBookingEmail(msg)
		if !ok {
			continue
		}
		if draft.MessageID == "" {
			// Without a message ID the dedupe key is useless; skip
			// rather than import duplicates forever.
			continue
		}

		draft.ID = uuid.NewString()
		draft.WorkspaceID = im.workspaceID
		draft.Status = model.DraftNew
		draft.CreatedAt = time.Now()

		inserted, err := im.store.CreateDraft(ctx, draft)
		if err != nil {
			return created, fmt.Errorf("storing draft from %s: %w", draft.MessageID, err)
		}
		if inserted {
			created++
		}
	}

	return created, nil
}
