// Package events reads and writes the JSONL event log the host replays into
// the conversation map and the caught-up tracker.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/adamavenir/huddle/internal/caughtup"
	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/types"
)

// Kind names the payload an event line carries.
type Kind string

const (
	KindMessage       Kind = "message"
	KindRemove        Kind = "remove"
	KindClear         Kind = "clear"
	KindFetchStart    Kind = "fetch_start"
	KindFetchComplete Kind = "fetch_complete"
	KindFetchError    Kind = "fetch_error"
	KindInvalidate    Kind = "invalidate"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingPayload   = errors.New("missing event payload")
)

// Anchor is a fetch anchor. In JSON it is a message id or one of
// "first_unread" and "newest". A missing anchor is the first unread anchor.
type Anchor int64

// UnmarshalJSON accepts numbers and the named anchors.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch strings.ToLower(name) {
		case "first_unread":
			*a = Anchor(core.FirstUnreadAnchor)
		case "newest", "last":
			*a = Anchor(core.LastMessageAnchor)
		default:
			return fmt.Errorf("unknown anchor %q", name)
		}
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid anchor: %w", err)
	}
	*a = Anchor(id)
	return nil
}

// MarshalJSON writes the named anchors by name.
func (a Anchor) MarshalJSON() ([]byte, error) {
	switch int64(a) {
	case core.FirstUnreadAnchor:
		return json.Marshal("first_unread")
	case core.LastMessageAnchor:
		return json.Marshal("newest")
	default:
		return json.Marshal(int64(a))
	}
}

// Event is one line of the event log.
type Event struct {
	Type        Kind                   `json:"type"`
	ID          string                 `json:"id,omitempty"`
	TS          int64                  `json:"ts,omitempty"`
	Message     *types.Message         `json:"message,omitempty"`
	MessageIDs  []int64                `json:"message_ids,omitempty"`
	Narrow      types.Narrow           `json:"narrow,omitempty"`
	Anchor      Anchor                 `json:"anchor,omitempty"`
	Messages    []types.FetchedMessage `json:"messages,omitempty"`
	NumBefore   int                    `json:"num_before,omitempty"`
	NumAfter    int                    `json:"num_after,omitempty"`
	FoundNewest *bool                  `json:"found_newest,omitempty"`
	FoundOldest *bool                  `json:"found_oldest,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// Decode parses and validates one event line.
func Decode(line string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks that the event has the payload its type needs.
func (ev Event) Validate() error {
	switch ev.Type {
	case KindMessage:
		if ev.Message == nil {
			return fmt.Errorf("%s event: %w", ev.Type, ErrMissingPayload)
		}
	case KindRemove, KindClear, KindFetchStart, KindFetchComplete, KindFetchError, KindInvalidate:
	default:
		return fmt.Errorf("%w %q", ErrUnknownEventType, ev.Type)
	}
	return nil
}

// RemoveEvent returns the removal payload of a remove event.
func (ev Event) RemoveEvent() types.RemoveEvent {
	return types.RemoveEvent{MessageIDs: ev.MessageIDs}
}

// Action converts a fetch or invalidate event into a tracker action.
func (ev Event) Action() (caughtup.Action, bool) {
	narrow := ev.Narrow
	if narrow == nil {
		narrow = core.HomeNarrow
	}
	switch ev.Type {
	case KindFetchStart:
		return caughtup.FetchStart{Narrow: narrow}, true
	case KindFetchError:
		var err error
		if ev.Error != "" {
			err = errors.New(ev.Error)
		}
		return caughtup.FetchError{Narrow: narrow, Err: err}, true
	case KindFetchComplete:
		return caughtup.FetchComplete{
			Narrow:      narrow,
			Anchor:      int64(ev.Anchor),
			Messages:    ev.Messages,
			NumBefore:   ev.NumBefore,
			NumAfter:    ev.NumAfter,
			FoundNewest: ev.FoundNewest,
			FoundOldest: ev.FoundOldest,
		}, true
	case KindInvalidate:
		return caughtup.Invalidate{Narrow: narrow}, true
	default:
		return nil, false
	}
}
