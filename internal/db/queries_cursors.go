package db

import (
	"database/sql"
	"time"
)

// EventLogCursor names the cursor tracking how much of events.jsonl was applied.
const EventLogCursor = "events"

// GetCursor returns the stored byte offset for name, or 0.
func GetCursor(db DBTX, name string) (int64, error) {
	row := db.QueryRow(`SELECT byte_offset FROM huddle_cursors WHERE name = ?`, name)
	var offset int64
	err := row.Scan(&offset)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return offset, nil
}

// SetCursor stores the byte offset for name.
func SetCursor(db DBTX, name string, offset int64) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO huddle_cursors (name, byte_offset, updated_at)
		VALUES (?, ?, ?)
	`, name, offset, time.Now().UnixMilli())
	return err
}
