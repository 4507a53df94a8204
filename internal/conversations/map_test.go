package conversations

import (
	"errors"
	"reflect"
	"testing"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/types"
)

func streamMsg(id int64, name, stream, topic, content string) types.Message {
	return types.Message{
		ID:        id,
		Sender:    types.Sender{FullName: name, Email: name + "@example.com"},
		Recipient: types.Recipient{Kind: types.RecipientStream, Stream: stream, Topic: topic},
		Content:   content,
	}
}

func privateMsg(id int64, name, content string) types.Message {
	return types.Message{
		ID:        id,
		Sender:    types.Sender{FullName: name, Email: name + "@example.com"},
		Recipient: types.Recipient{Kind: types.RecipientPrivate, Email: "me@example.com"},
		Content:   content,
	}
}

func groupMsg(id int64, name string, emails []string, content string) types.Message {
	return types.Message{
		ID:        id,
		Sender:    types.Sender{FullName: name, Email: name + "@example.com"},
		Recipient: types.Recipient{Kind: types.RecipientGroup, Emails: emails},
		Content:   content,
	}
}

func mustAdd(t *testing.T, m *Map, msgs ...types.Message) *Map {
	t.Helper()
	for _, msg := range msgs {
		next, err := Add(m, msg)
		if err != nil {
			t.Fatalf("add %d: %v", msg.ID, err)
		}
		m = next
	}
	return m
}

func bucketIDs(m *Map, key string) []int64 {
	var ids []int64
	for _, msg := range m.Bucket(key) {
		ids = append(ids, msg.ID)
	}
	return ids
}

func TestAddGroupsSameStreamInArrivalOrder(t *testing.T) {
	m := mustAdd(t, Empty(),
		streamMsg(1, "Alice", "design", "logo", "one"),
		streamMsg(2, "Bob", "design", "logo", "two"),
	)
	if m.Len() != 1 {
		t.Fatalf("expected 1 conversation, got %d", m.Len())
	}
	if got := bucketIDs(m, "design:stream"); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("unexpected bucket %v", got)
	}
}

func TestAddSeparatesPrivateAndGroup(t *testing.T) {
	m := mustAdd(t, Empty(),
		privateMsg(1, "alice", "hi"),
		groupMsg(2, "alice", []string{"alice@example.com", "me@example.com"}, "hi all"),
	)
	keys := m.Keys()
	want := []string{"alice@example.com:private", "alice@example.com,me@example.com:group"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestAddKeepsFirstSeenKeyOrder(t *testing.T) {
	m := mustAdd(t, Empty(),
		streamMsg(1, "Alice", "b", "t", "x"),
		streamMsg(2, "Alice", "a", "t", "x"),
		streamMsg(3, "Alice", "b", "t", "x"),
	)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"b:stream", "a:stream"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	first := mustAdd(t, Empty(), streamMsg(1, "Alice", "design", "logo", "one"))
	second := mustAdd(t, first, streamMsg(2, "Bob", "design", "logo", "two"))
	third := mustAdd(t, first, privateMsg(3, "Carol", "psst"))

	if got := bucketIDs(first, "design:stream"); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("first snapshot changed: %v", got)
	}
	if first.Len() != 1 {
		t.Fatalf("first snapshot gained keys: %v", first.Keys())
	}
	if got := bucketIDs(second, "design:stream"); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("second snapshot wrong: %v", got)
	}
	if got := bucketIDs(third, "design:stream"); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("third snapshot saw sibling append: %v", got)
	}
}

func TestAddUnknownRecipient(t *testing.T) {
	m := mustAdd(t, Empty(), streamMsg(1, "Alice", "design", "logo", "one"))
	next, err := Add(m, types.Message{ID: 2, Recipient: types.Recipient{Kind: "broadcast"}})
	if !errors.Is(err, core.ErrUnknownRecipient) {
		t.Fatalf("expected ErrUnknownRecipient, got %v", err)
	}
	if next != m {
		t.Fatalf("expected unchanged map on error")
	}
}

func TestRemoveDropsEmptyBuckets(t *testing.T) {
	m := mustAdd(t, Empty(),
		streamMsg(1, "Alice", "design", "logo", "one"),
		privateMsg(2, "Bob", "hey"),
		streamMsg(3, "Carol", "design", "logo", "three"),
	)
	next := Remove(m, types.RemoveEvent{MessageIDs: []int64{1, 3}})
	if got := next.Keys(); !reflect.DeepEqual(got, []string{"Bob@example.com:private"}) {
		t.Fatalf("unexpected keys after remove: %v", got)
	}
	if TotalCount(next) != 1 {
		t.Fatalf("expected 1 message left, got %d", TotalCount(next))
	}
	if TotalCount(m) != 3 {
		t.Fatalf("original map changed")
	}
}

func TestRemoveAcrossBuckets(t *testing.T) {
	m := mustAdd(t, Empty(),
		streamMsg(1, "Alice", "design", "logo", "one"),
		streamMsg(2, "Alice", "design", "logo", "two"),
		privateMsg(3, "Bob", "hey"),
		privateMsg(4, "Bob", "again"),
	)
	next := Remove(m, types.RemoveEvent{MessageIDs: []int64{2, 3}})
	if got := bucketIDs(next, "design:stream"); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("stream bucket = %v", got)
	}
	if got := bucketIDs(next, "Bob@example.com:private"); !reflect.DeepEqual(got, []int64{4}) {
		t.Fatalf("private bucket = %v", got)
	}
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	m := mustAdd(t, Empty(), streamMsg(1, "Alice", "design", "logo", "one"))
	if next := Remove(m, types.RemoveEvent{MessageIDs: []int64{99}}); next != m {
		t.Fatalf("expected same map for unknown id")
	}
	if next := Remove(m, types.RemoveEvent{}); next != m {
		t.Fatalf("expected same map for empty removal")
	}
}

func TestClear(t *testing.T) {
	m := mustAdd(t, Empty(), streamMsg(1, "Alice", "design", "logo", "one"))
	cleared := Clear(m)
	if !cleared.IsEmpty() || TotalCount(cleared) != 0 {
		t.Fatalf("expected empty map after clear")
	}
	if again := Clear(cleared); again != cleared {
		t.Fatalf("clearing an empty map should return it unchanged")
	}
}

func TestTotalCountAndDistinctNames(t *testing.T) {
	m := mustAdd(t, Empty(),
		streamMsg(1, "Alice", "design", "logo", "one"),
		privateMsg(2, "Bob", "hey"),
		streamMsg(3, "Bob", "design", "logo", "two"),
		types.Message{
			ID:        4,
			Sender:    types.Sender{FullName: "Alice", Email: "other-alice@example.com"},
			Recipient: types.Recipient{Kind: types.RecipientPrivate},
			Content:   "same name",
		},
	)
	if TotalCount(m) != 4 {
		t.Fatalf("expected 4 messages, got %d", TotalCount(m))
	}
	if got := DistinctNames(m); !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Fatalf("distinct names = %v", got)
	}
}

func TestFromBucketsSkipsEmpty(t *testing.T) {
	m := FromBuckets([]string{"a:stream", "b:stream", "a:stream"}, map[string][]types.Message{
		"a:stream": {streamMsg(1, "Alice", "a", "t", "x")},
		"b:stream": nil,
	})
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a:stream"}) {
		t.Fatalf("keys = %v", got)
	}
}
