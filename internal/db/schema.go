package db

import (
	"database/sql"
)

const schemaSQL = `
-- Conversations currently shown in the notification, one row per message
CREATE TABLE IF NOT EXISTS huddle_notifications (
  conv_key TEXT NOT NULL,              -- e.g. "design:stream", "alice@example.com:private"
  position INTEGER NOT NULL,           -- first-seen order of the conversation
  seq INTEGER NOT NULL,                -- arrival order inside the conversation
  message_id INTEGER NOT NULL,
  payload TEXT NOT NULL,               -- JSON encoded message
  PRIMARY KEY (conv_key, seq)
);

CREATE INDEX IF NOT EXISTS idx_huddle_notifications_position ON huddle_notifications(position, seq);

-- Caught-up records per narrow
CREATE TABLE IF NOT EXISTS huddle_caught_up (
  narrow_key TEXT PRIMARY KEY,         -- canonical narrow key, "[]" for home
  older INTEGER NOT NULL DEFAULT 0,
  newer INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL          -- unix millis
);

-- Read positions in the event log
CREATE TABLE IF NOT EXISTS huddle_cursors (
  name TEXT PRIMARY KEY,
  byte_offset INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// InitSchema initializes the huddle schema.
func InitSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(schemaSQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SchemaExists reports whether the huddle schema is present.
func SchemaExists(db *sql.DB) (bool, error) {
	row := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'huddle_notifications'
	`)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
