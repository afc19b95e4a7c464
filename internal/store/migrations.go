package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workspaces (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	base_url      TEXT NOT NULL,
	org_id        TEXT NOT NULL,
	mail_enabled  INTEGER NOT NULL DEFAULT 0,
	mail_host     TEXT NOT NULL DEFAULT '',
	mail_username TEXT NOT NULL DEFAULT '',
	mail_folder   TEXT NOT NULL DEFAULT 'INBOX',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS edit_history (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	resource     TEXT NOT NULL,
	record_id    TEXT NOT NULL,
	field        TEXT NOT NULL,
	previous     TEXT NOT NULL DEFAULT '',
	next         TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL CHECK(status IN ('committed', 'failed')),
	message      TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_edit_history_workspace
	ON edit_history(workspace_id, created_at);
CREATE INDEX IF NOT EXISTS idx_edit_history_resource
	ON edit_history(resource);
CREATE INDEX IF NOT EXISTS idx_edit_history_status
	ON edit_history(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS booking_drafts (
	id             TEXT PRIMARY KEY,
	workspace_id   TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	message_id     TEXT NOT NULL,
	channel        TEXT NOT NULL DEFAULT 'direct',
	guest_name     TEXT NOT NULL DEFAULT '',
	guest_email    TEXT NOT NULL DEFAULT '',
	unit_hint      TEXT NOT NULL DEFAULT '',
	check_in       TEXT NOT NULL DEFAULT '',
	check_out      TEXT NOT NULL DEFAULT '',
	amount         REAL NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'new'
		CHECK(status IN ('new', 'imported', 'dismissed')),
	reservation_id TEXT NOT NULL DEFAULT '',
	received_at    DATETIME NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_drafts_message
	ON booking_drafts(workspace_id, message_id);
CREATE INDEX IF NOT EXISTS idx_booking_drafts_status
	ON booking_drafts(workspace_id, status);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
