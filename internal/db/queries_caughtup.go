package db

import (
	"database/sql"
	"time"

	"github.com/adamavenir/huddle/internal/caughtup"
	"github.com/adamavenir/huddle/internal/types"
)

// saveCaughtUpWith replaces the stored caught-up records with those of state.
func saveCaughtUpWith(db DBTX, state *caughtup.State) error {
	if _, err := db.Exec(`DELETE FROM huddle_caught_up`); err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	for key, record := range state.Records() {
		_, err := db.Exec(`
			INSERT INTO huddle_caught_up (narrow_key, older, newer, updated_at)
			VALUES (?, ?, ?, ?)
		`, key, boolToInt(record.Older), boolToInt(record.Newer), now)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadCaughtUp restores the caught-up state.
func LoadCaughtUp(db DBTX) (*caughtup.State, error) {
	rows, err := db.Query(`SELECT narrow_key, older, newer FROM huddle_caught_up`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := map[string]types.CaughtUp{}
	for rows.Next() {
		var key string
		var older, newer int
		if err := rows.Scan(&key, &older, &newer); err != nil {
			return nil, err
		}
		records[key] = types.CaughtUp{Older: older != 0, Newer: newer != 0}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return caughtup.FromRecords(records), nil
}

// GetCaughtUp returns the stored record for one narrow key.
func GetCaughtUp(db DBTX, narrowKey string) (*types.CaughtUp, error) {
	row := db.QueryRow(`SELECT older, newer FROM huddle_caught_up WHERE narrow_key = ?`, narrowKey)
	var older, newer int
	err := row.Scan(&older, &newer)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.CaughtUp{Older: older != 0, Newer: newer != 0}, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
