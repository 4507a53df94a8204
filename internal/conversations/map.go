// Package conversations groups pushed messages into per-conversation buckets.
//
// A Map is never modified after it is built. Every operation returns a Map;
// when nothing changed it is the same pointer that was passed in, so callers
// can compare pointers to skip work.
package conversations

import (
	"fmt"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/types"
)

// Map holds the conversations being shown, keyed by conversation key.
// Iteration order is the order in which keys were first seen.
type Map struct {
	order   []string
	buckets map[string][]types.Message
}

var empty = &Map{buckets: map[string][]types.Message{}}

// Empty returns a map with no conversations.
func Empty() *Map {
	return empty
}

// FromBuckets rebuilds a map from keys in display order and their messages.
// Keys without messages are skipped.
func FromBuckets(keys []string, buckets map[string][]types.Message) *Map {
	m := &Map{buckets: make(map[string][]types.Message, len(keys))}
	for _, key := range keys {
		messages := buckets[key]
		if len(messages) == 0 {
			continue
		}
		if _, ok := m.buckets[key]; ok {
			continue
		}
		m.order = append(m.order, key)
		m.buckets[key] = append([]types.Message(nil), messages...)
	}
	return m
}

// Len returns the number of conversations.
func (m *Map) Len() int {
	return len(m.order)
}

// IsEmpty reports whether the map holds no conversations.
func (m *Map) IsEmpty() bool {
	return len(m.order) == 0
}

// Keys returns the conversation keys in first-seen order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.order...)
}

// Bucket returns a copy of the messages of one conversation, in arrival order.
func (m *Map) Bucket(key string) []types.Message {
	return append([]types.Message(nil), m.buckets[key]...)
}

// Add appends msg to its conversation, creating the conversation at the end
// of the order when it is new.
func Add(m *Map, msg types.Message) (*Map, error) {
	key, err := core.ConversationKey(msg)
	if err != nil {
		return m, fmt.Errorf("add message: %w", err)
	}

	existing, ok := m.buckets[key]
	bucket := make([]types.Message, len(existing), len(existing)+1)
	copy(bucket, existing)
	bucket = append(bucket, msg)

	next := &Map{
		order:   m.order,
		buckets: make(map[string][]types.Message, len(m.buckets)+1),
	}
	for k, v := range m.buckets {
		next.buckets[k] = v
	}
	next.buckets[key] = bucket
	if !ok {
		next.order = make([]string, len(m.order), len(m.order)+1)
		copy(next.order, m.order)
		next.order = append(next.order, key)
	}
	return next, nil
}

// Remove drops every message whose id is in ev from every conversation.
// The event does not say which conversation a message lives in, so all of
// them are scanned. Conversations left without messages are removed.
func Remove(m *Map, ev types.RemoveEvent) *Map {
	if len(ev.MessageIDs) == 0 || m.IsEmpty() {
		return m
	}
	ids := make(map[int64]struct{}, len(ev.MessageIDs))
	for _, id := range ev.MessageIDs {
		ids[id] = struct{}{}
	}

	var changed map[string][]types.Message
	for _, key := range m.order {
		bucket := m.buckets[key]
		kept := bucket[:0:0]
		for _, msg := range bucket {
			if _, drop := ids[msg.ID]; !drop {
				kept = append(kept, msg)
			}
		}
		if len(kept) == len(bucket) {
			continue
		}
		if changed == nil {
			changed = map[string][]types.Message{}
		}
		changed[key] = kept
	}
	if changed == nil {
		return m
	}

	next := &Map{buckets: make(map[string][]types.Message, len(m.buckets))}
	for _, key := range m.order {
		bucket, ok := changed[key]
		if !ok {
			bucket = m.buckets[key]
		}
		if len(bucket) == 0 {
			continue
		}
		next.order = append(next.order, key)
		next.buckets[key] = bucket
	}
	return next
}

// Clear drops every conversation.
func Clear(m *Map) *Map {
	if m.IsEmpty() {
		return m
	}
	return Empty()
}

// TotalCount returns the number of messages across all conversations.
func TotalCount(m *Map) int {
	total := 0
	for _, key := range m.order {
		total += len(m.buckets[key])
	}
	return total
}

// DistinctNames returns sender display names across all conversations in
// first-occurrence order. Two senders sharing a display name are listed once.
func DistinctNames(m *Map) []string {
	seen := map[string]struct{}{}
	names := []string{}
	for _, key := range m.order {
		names = appendNewNames(names, seen, m.buckets[key])
	}
	return names
}

func appendNewNames(names []string, seen map[string]struct{}, messages []types.Message) []string {
	for _, msg := range messages {
		name := msg.Sender.FullName
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
