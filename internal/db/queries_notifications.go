package db

import (
	"encoding/json"
	"fmt"

	"github.com/adamavenir/huddle/internal/conversations"
	"github.com/adamavenir/huddle/internal/types"
)

// saveConversationsWith replaces the stored conversations with m.
func saveConversationsWith(db DBTX, m *conversations.Map) error {
	if _, err := db.Exec(`DELETE FROM huddle_notifications`); err != nil {
		return err
	}
	for position, key := range m.Keys() {
		for seq, msg := range m.Bucket(key) {
			payload, err := json.Marshal(msg)
			if err != nil {
				return fmt.Errorf("encode message %d: %w", msg.ID, err)
			}
			_, err = db.Exec(`
				INSERT INTO huddle_notifications (conv_key, position, seq, message_id, payload)
				VALUES (?, ?, ?, ?, ?)
			`, key, position, seq, msg.ID, string(payload))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadConversations rebuilds the conversation map in its stored order.
func LoadConversations(db DBTX) (*conversations.Map, error) {
	rows, err := db.Query(`
		SELECT conv_key, payload
		FROM huddle_notifications
		ORDER BY position, seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	buckets := map[string][]types.Message{}
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, err
		}
		var msg types.Message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, fmt.Errorf("decode stored message in %s: %w", key, err)
		}
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return conversations.Empty(), nil
	}
	return conversations.FromBuckets(keys, buckets), nil
}
