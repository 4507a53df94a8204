// Package caughtup tracks, per narrow, whether the client holds every older
// and every newer message the server has.
package caughtup

import (
	"sort"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/types"
)

// State maps narrow keys to caught-up records. A State is never modified
// after it is built; Reduce returns the same pointer when nothing changed.
type State struct {
	records map[string]types.CaughtUp
}

var initial = &State{records: map[string]types.CaughtUp{}}

// Initial returns the state with no known narrows.
func Initial() *State {
	return initial
}

// FromRecords restores a state from persisted records.
func FromRecords(records map[string]types.CaughtUp) *State {
	if len(records) == 0 {
		return initial
	}
	s := &State{records: make(map[string]types.CaughtUp, len(records))}
	for key, record := range records {
		s.records[key] = record
	}
	return s
}

// Get returns the record for a narrow. Unknown narrows are not caught up.
func (s *State) Get(narrow types.Narrow) types.CaughtUp {
	record, _ := s.Lookup(core.NarrowKey(narrow))
	return record
}

// Lookup returns the record stored under a narrow key.
func (s *State) Lookup(key string) (types.CaughtUp, bool) {
	record, ok := s.records[key]
	return record, ok
}

// Len returns the number of narrows with a record.
func (s *State) Len() int {
	return len(s.records)
}

// Keys returns the narrow keys with a record, sorted.
func (s *State) Keys() []string {
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Records returns a copy of every record.
func (s *State) Records() map[string]types.CaughtUp {
	out := make(map[string]types.CaughtUp, len(s.records))
	for key, record := range s.records {
		out[key] = record
	}
	return out
}

func (s *State) with(key string, record types.CaughtUp) *State {
	next := &State{records: make(map[string]types.CaughtUp, len(s.records)+1)}
	for k, v := range s.records {
		next.records[k] = v
	}
	next.records[key] = record
	return next
}

func (s *State) without(key string) *State {
	next := &State{records: make(map[string]types.CaughtUp, len(s.records))}
	for k, v := range s.records {
		if k != key {
			next.records[k] = v
		}
	}
	return next
}
