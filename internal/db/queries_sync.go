package db

import (
	"database/sql"
	"fmt"

	"github.com/adamavenir/huddle/internal/caughtup"
	"github.com/adamavenir/huddle/internal/conversations"
)

// SyncUpdate is what one pass over the event log changed. Nil fields are
// left as stored.
type SyncUpdate struct {
	Conversations *conversations.Map
	CaughtUp      *caughtup.State
	Cursor        *int64
}

// Empty reports whether the update has nothing to write.
func (u SyncUpdate) Empty() bool {
	return u.Conversations == nil && u.CaughtUp == nil && u.Cursor == nil
}

// SaveSync writes the update in a single transaction, so the stored state
// and the log cursor never disagree.
func SaveSync(db *sql.DB, update SyncUpdate) error {
	if update.Empty() {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := saveSyncWith(tx, update); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveSyncWith(tx DBTX, update SyncUpdate) error {
	if update.Conversations != nil {
		if err := saveConversationsWith(tx, update.Conversations); err != nil {
			return fmt.Errorf("save conversations: %w", err)
		}
	}
	if update.CaughtUp != nil {
		if err := saveCaughtUpWith(tx, update.CaughtUp); err != nil {
			return fmt.Errorf("save caught-up state: %w", err)
		}
	}
	if update.Cursor != nil {
		if err := SetCursor(tx, EventLogCursor, *update.Cursor); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
	}
	return nil
}
