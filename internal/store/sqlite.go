package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gimenezdev/rentalops/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// DefaultDBPath returns the default database location, next to the
// configuration file at ~/.config/rentalops/rentalops.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "rentalops.db")
	}
	return filepath.Join(home, ".config", "rentalops", "rentalops.db")
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertWorkspace inserts or updates a workspace profile.
// If the workspace has no ID, a new UUID is generated. The update happens
// in place: INSERT OR REPLACE would delete the old row first and cascade
// to the edit journal and booking drafts.
func (s *SQLiteStore) UpsertWorkspace(
	ctx context.Context,
	ws model.Workspace,
) error {
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = time.Now().UTC()
	}
	if ws.MailFolder == "" {
		ws.MailFolder = "INBOX"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspaces (
			id, name, base_url, org_id,
			mail_enabled, mail_host, mail_username, mail_folder,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_url = excluded.base_url,
			org_id = excluded.org_id,
			mail_enabled = excluded.mail_enabled,
			mail_host = excluded.mail_host,
			mail_username = excluded.mail_username,
			mail_folder = excluded.mail_folder,
			updated_at = excluded.updated_at`,
		ws.ID, ws.Name, ws.BaseURL, ws.OrgID,
		boolToInt(ws.MailEnabled), ws.MailHost, ws.MailUsername, ws.MailFolder,
		ws.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting workspace %s: %w", ws.ID, err)
	}

	return nil
}

// GetWorkspaces retrieves all workspace profiles ordered by name.
func (s *SQLiteStore) GetWorkspaces(
	ctx context.Context,
) ([]model.Workspace, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM workspaces ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []model.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}

	return workspaces, rows.Err()
}

// GetWorkspaceByID retrieves a single workspace, or nil when it does not
// exist.
func (s *SQLiteStore) GetWorkspaceByID(
	ctx context.Context,
	id string,
) (*model.Workspace, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM workspaces WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying workspace %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("querying workspace %s: %w", id, err)
		}
		return nil, nil
	}

	ws, err := scanWorkspace(rows)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// DeleteWorkspace removes a workspace and, via cascading foreign keys, its
// edit history and booking drafts.
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM workspaces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting workspace %s: %w", id, err)
	}
	return nil
}

// AppendEdit inserts an edit journal entry.
func (s *SQLiteStore) AppendEdit(
	ctx context.Context,
	entry model.EditEntry,
) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO edit_history (
			id, workspace_id, resource, record_id, field,
			previous, next, status, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.WorkspaceID, entry.Resource, entry.RecordID, entry.Field,
		entry.Previous, entry.Next, entry.Status, entry.Message,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending edit entry: %w", err)
	}

	return nil
}

// GetEdits retrieves edit journal entries matching the filter, newest first.
func (s *SQLiteStore) GetEdits(
	ctx context.Context,
	filter EditFilter,
) ([]model.EditEntry, error) {
	conditions := []string{"workspace_id = ?"}
	args := []interface{}{filter.WorkspaceID}

	if filter.Resource != nil {
		conditions = append(conditions, "resource = ?")
		args = append(args, *filter.Resource)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT * FROM edit_history WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying edit history: %w", err)
	}
	defer rows.Close()

	var entries []model.EditEntry
	for rows.Next() {
		entry, err := scanEdit(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CreateDraft inserts a booking draft unless one with the same workspace
// and message ID already exists. It reports whether a row was inserted.
func (s *SQLiteStore) CreateDraft(
	ctx context.Context,
	draft model.BookingDraft,
) (bool, error) {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.Status == "" {
		draft.Status = model.DraftNew
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO booking_drafts (
			id, workspace_id, message_id, channel,
			guest_name, guest_email, unit_hint,
			check_in, check_out, amount,
			status, reservation_id, received_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.WorkspaceID, draft.MessageID, draft.Channel,
		draft.GuestName, draft.GuestEmail, draft.UnitHint,
		draft.CheckIn, draft.CheckOut, draft.Amount,
		draft.Status, draft.ReservationID,
		draft.ReceivedAt.UTC(), draft.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("creating booking draft: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking draft insert: %w", err)
	}
	return inserted > 0, nil
}

// GetDrafts retrieves booking drafts matching the filter, newest first.
func (s *SQLiteStore) GetDrafts(
	ctx context.Context,
	filter DraftFilter,
) ([]model.BookingDraft, error) {
	conditions := []string{"workspace_id = ?"}
	args := []interface{}{filter.WorkspaceID}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT * FROM booking_drafts WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY received_at DESC"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying booking drafts: %w", err)
	}
	defer rows.Close()

	var drafts []model.BookingDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

// UpdateDraftStatus moves a draft through its lifecycle, recording the
// created reservation when the draft is imported.
func (s *SQLiteStore) UpdateDraftStatus(
	ctx context.Context,
	id, status, reservationID string,
) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE booking_drafts SET status = ?, reservation_id = ? WHERE id = ?`,
		status, reservationID, id,
	)
	if err != nil {
		return fmt.Errorf("updating booking draft %s: %w", id, err)
	}
	return nil
}

// scanWorkspace scans a workspace row from a sqlx.Rows result set.
func scanWorkspace(rows *sqlx.Rows) (model.Workspace, error) {
	var (
		ws          model.Workspace
		mailEnabled int
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := rows.Scan(
		&ws.ID, &ws.Name, &ws.BaseURL, &ws.OrgID,
		&mailEnabled, &ws.MailHost, &ws.MailUsername, &ws.MailFolder,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Workspace{}, fmt.Errorf("scanning workspace row: %w", err)
	}

	ws.MailEnabled = mailEnabled != 0
	ws.CreatedAt = createdAt
	ws.UpdatedAt = updatedAt

	return ws, nil
}

// scanEdit scans an edit history row from a sqlx.Rows result set.
func scanEdit(rows *sqlx.Rows) (model.EditEntry, error) {
	var (
		entry     model.EditEntry
		createdAt time.Time
	)

	err := rows.Scan(
		&entry.ID, &entry.WorkspaceID, &entry.Resource, &entry.RecordID,
		&entry.Field, &entry.Previous, &entry.Next, &entry.Status,
		&entry.Message, &createdAt,
	)
	if err != nil {
		return model.EditEntry{}, fmt.Errorf("scanning edit row: %w", err)
	}

	entry.CreatedAt = createdAt

	return entry, nil
}

// scanDraft scans a booking draft row from a sqlx.Rows result set.
func scanDraft(rows *sqlx.Rows) (model.BookingDraft, error) {
	var (
		draft      model.BookingDraft
		receivedAt time.Time
		createdAt  time.Time
	)

	err := rows.Scan(
		&draft.ID, &draft.WorkspaceID, &draft.MessageID, &draft.Channel,
		&draft.GuestName, &draft.GuestEmail, &draft.UnitHint,
		&draft.CheckIn, &draft.CheckOut, &draft.Amount,
		&draft.Status, &draft.ReservationID,
		&receivedAt, &createdAt,
	)
	if err != nil {
		return model.BookingDraft{}, fmt.Errorf("scanning draft row: %w", err)
	}

	draft.ReceivedAt = receivedAt
	draft.CreatedAt = createdAt

	return draft, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
