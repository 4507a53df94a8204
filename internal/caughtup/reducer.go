package caughtup

import (
	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/types"
)

// Action is a fetch lifecycle event.
type Action interface {
	isAction()
}

// FetchStart is delivered when a fetch for a narrow is issued.
type FetchStart struct {
	Narrow types.Narrow
}

// FetchError is delivered when a fetch for a narrow failed.
type FetchError struct {
	Narrow types.Narrow
	Err    error
}

// FetchComplete carries the result of a fetch around Anchor.
// FoundNewest and FoundOldest are set when the server reported them.
type FetchComplete struct {
	Narrow      types.Narrow
	Anchor      int64
	Messages    []types.FetchedMessage
	NumBefore   int
	NumAfter    int
	FoundNewest *bool
	FoundOldest *bool
}

// Invalidate forgets what is known about a narrow.
type Invalidate struct {
	Narrow types.Narrow
}

func (FetchStart) isAction()    {}
func (FetchError) isAction()    {}
func (FetchComplete) isAction() {}
func (Invalidate) isAction()    {}

// Reduce applies one action and returns the resulting state.
func Reduce(state *State, action Action) *State {
	switch a := action.(type) {
	case FetchStart, FetchError:
		// Starting a fetch changes nothing, so a failed one has nothing to undo.
		return state
	case FetchComplete:
		return fetchComplete(state, a)
	case Invalidate:
		key := core.NarrowKey(a.Narrow)
		if _, ok := state.records[key]; !ok {
			return state
		}
		return state.without(key)
	default:
		return state
	}
}

func fetchComplete(state *State, a FetchComplete) *State {
	if core.IsSearchNarrow(a.Narrow) {
		return state
	}

	var found types.CaughtUp
	if a.FoundNewest != nil && a.FoundOldest != nil {
		found = types.CaughtUp{Older: *a.FoundOldest, Newer: *a.FoundNewest}
	} else {
		found = inferCaughtUp(a)
	}
	if a.Anchor == core.LastMessageAnchor {
		found.Newer = true
	}

	key := core.NarrowKey(a.Narrow)
	prev, ok := state.records[key]
	next := types.CaughtUp{
		Older: prev.Older || found.Older,
		Newer: prev.Newer || found.Newer,
	}
	if ok && next == prev {
		return state
	}
	return state.with(key, next)
}

// inferCaughtUp guesses completeness from how many messages came back on each
// side of the anchor. Getting fewer than asked for means the end was reached.
func inferCaughtUp(a FetchComplete) types.CaughtUp {
	before, after := partition(a)

	// The server may include one more message than requested.
	if excess := len(a.Messages) - (a.NumBefore + a.NumAfter); excess > 0 {
		if slack := before - a.NumBefore; slack > 0 {
			taken := min(slack, excess)
			before -= taken
			excess -= taken
		}
		after = max(after-excess, 0)
	}

	return types.CaughtUp{
		Older: a.NumBefore > 0 && before < a.NumBefore,
		Newer: a.NumAfter > 0 && after < a.NumAfter,
	}
}

func partition(a FetchComplete) (before, after int) {
	for _, msg := range a.Messages {
		var isBefore bool
		if a.Anchor == core.FirstUnreadAnchor {
			isBefore = msg.Read()
		} else {
			isBefore = msg.ID < a.Anchor
		}
		if isBefore {
			before++
		} else {
			after++
		}
	}
	return before, after
}
