package events

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adamavenir/huddle/internal/caughtup"
	"github.com/adamavenir/huddle/internal/core"
)

func TestDecodeMessage(t *testing.T) {
	ev, err := Decode(`{"type":"message","message":{"id":7,"sender":{"full_name":"Alice","email":"alice@example.com"},"recipient":{"kind":"stream","stream":"design","topic":"logo"},"content":"hi"}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != KindMessage || ev.Message == nil || ev.Message.ID != 7 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Message.Recipient.Stream != "design" {
		t.Fatalf("recipient not decoded: %+v", ev.Message.Recipient)
	}
}

func TestDecodeRejectsBadLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{name: "unknown type", line: `{"type":"typing"}`, want: ErrUnknownEventType},
		{name: "message without payload", line: `{"type":"message"}`, want: ErrMissingPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.line); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if _, err := Decode(`{not json`); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestNamedAnchors(t *testing.T) {
	tests := []struct {
		line string
		want int64
	}{
		{line: `{"type":"fetch_complete","anchor":"first_unread"}`, want: core.FirstUnreadAnchor},
		{line: `{"type":"fetch_complete","anchor":"newest"}`, want: core.LastMessageAnchor},
		{line: `{"type":"fetch_complete","anchor":42}`, want: 42},
		{line: `{"type":"fetch_complete"}`, want: core.FirstUnreadAnchor},
	}
	for _, tt := range tests {
		ev, err := Decode(tt.line)
		if err != nil {
			t.Fatalf("decode %s: %v", tt.line, err)
		}
		if int64(ev.Anchor) != tt.want {
			t.Fatalf("%s: anchor = %d, want %d", tt.line, ev.Anchor, tt.want)
		}
	}
	if _, err := Decode(`{"type":"fetch_complete","anchor":"middle"}`); err == nil {
		t.Fatalf("expected error for unknown anchor name")
	}
}

func TestActionDefaultsToHomeNarrow(t *testing.T) {
	ev, err := Decode(`{"type":"fetch_complete","anchor":1,"messages":[{"id":1}],"num_before":5,"num_after":5,"found_newest":true}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	action, ok := ev.Action()
	if !ok {
		t.Fatalf("expected tracker action")
	}
	complete, ok := action.(caughtup.FetchComplete)
	if !ok {
		t.Fatalf("expected FetchComplete, got %T", action)
	}
	if core.NarrowKey(complete.Narrow) != "[]" {
		t.Fatalf("expected home narrow, got %+v", complete.Narrow)
	}
	if complete.FoundNewest == nil || !*complete.FoundNewest || complete.FoundOldest != nil {
		t.Fatalf("found flags not carried: %+v", complete)
	}

	if _, ok := (Event{Type: KindClear}).Action(); ok {
		t.Fatalf("clear is not a tracker action")
	}
}

func TestAppendAndReadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	first, err := Append(path, Event{Type: KindClear})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == "" || first.TS == 0 {
		t.Fatalf("expected id and ts to be filled, got %+v", first)
	}
	if _, err := Append(path, Event{Type: KindRemove, MessageIDs: []int64{1, 2}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, offset, err := ReadFrom(path, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event.ID != first.ID || entries[1].Event.Type != KindRemove {
		t.Fatalf("unexpected entries %+v", entries)
	}

	again, next, err := ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("read again: %v", err)
	}
	if len(again) != 0 || next != offset {
		t.Fatalf("expected nothing new, got %d entries at %d", len(again), next)
	}
}

func TestReadFromLeavesPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := "{\"type\":\"clear\"}\n{\"type\":\"typing\"}\n{\"type\":\"cle"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, offset, err := ReadFrom(path, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 complete lines, got %d", len(entries))
	}
	if entries[0].Err != nil {
		t.Fatalf("first line should decode: %v", entries[0].Err)
	}
	if !errors.Is(entries[1].Err, ErrUnknownEventType) {
		t.Fatalf("second line should fail with unknown type, got %v", entries[1].Err)
	}
	wantOffset := int64(len("{\"type\":\"clear\"}\n{\"type\":\"typing\"}\n"))
	if offset != wantOffset {
		t.Fatalf("offset = %d, want %d", offset, wantOffset)
	}
}

func TestReadFromMissingFile(t *testing.T) {
	entries, offset, err := ReadFrom(filepath.Join(t.TempDir(), "missing.jsonl"), 12)
	if err != nil || len(entries) != 0 || offset != 12 {
		t.Fatalf("expected empty read, got %d entries, offset %d, err %v", len(entries), offset, err)
	}
}
