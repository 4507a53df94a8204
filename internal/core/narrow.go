package core

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/adamavenir/huddle/internal/types"
)

// Fetch anchors with special meaning to the server.
const (
	// FirstUnreadAnchor asks for messages around the first unread message.
	FirstUnreadAnchor int64 = 0
	// LastMessageAnchor asks for the newest messages.
	LastMessageAnchor int64 = math.MaxInt64
)

const (
	OperatorStream = "stream"
	OperatorTopic  = "topic"
	OperatorIs     = "is"
	OperatorPMWith = "pm-with"
	OperatorSearch = "search"
)

// HomeNarrow is the whole home timeline.
var HomeNarrow = types.Narrow{}

// AllPrivateNarrow is every private and group conversation.
var AllPrivateNarrow = types.Narrow{{Operator: OperatorIs, Operand: "private"}}

// StreamNarrow selects one stream.
func StreamNarrow(stream string) types.Narrow {
	return types.Narrow{{Operator: OperatorStream, Operand: stream}}
}

// TopicNarrow selects one topic of a stream.
func TopicNarrow(stream, topic string) types.Narrow {
	return types.Narrow{
		{Operator: OperatorStream, Operand: stream},
		{Operator: OperatorTopic, Operand: topic},
	}
}

// PrivateNarrow selects a private or group conversation with the given users.
func PrivateNarrow(emails ...string) types.Narrow {
	sorted := append([]string(nil), emails...)
	sort.Strings(sorted)
	return types.Narrow{{Operator: OperatorPMWith, Operand: strings.Join(sorted, ",")}}
}

// SearchNarrow selects full text search results.
func SearchNarrow(query string) types.Narrow {
	return types.Narrow{{Operator: OperatorSearch, Operand: query}}
}

// IsSearchNarrow reports whether any element of the narrow is a search term.
func IsSearchNarrow(narrow types.Narrow) bool {
	for _, element := range narrow {
		if element.Operator == OperatorSearch {
			return true
		}
	}
	return false
}

// NarrowKey returns the canonical string key for a narrow.
// Element order does not matter; the home narrow is "[]".
func NarrowKey(narrow types.Narrow) string {
	sorted := make(types.Narrow, len(narrow))
	copy(sorted, narrow)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Operator != sorted[j].Operator {
			return sorted[i].Operator < sorted[j].Operator
		}
		return sorted[i].Operand < sorted[j].Operand
	})
	data, err := json.Marshal(sorted)
	if err != nil {
		// Narrow elements are plain strings; Marshal cannot fail on them.
		panic(fmt.Sprintf("encode narrow: %v", err))
	}
	return string(data)
}

// ParseNarrow decodes a narrow from its JSON form.
func ParseNarrow(value string) (types.Narrow, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "home" {
		return HomeNarrow, nil
	}
	var narrow types.Narrow
	if err := json.Unmarshal([]byte(value), &narrow); err != nil {
		return nil, fmt.Errorf("invalid narrow %q: %w", value, err)
	}
	if narrow == nil {
		narrow = types.Narrow{}
	}
	return narrow, nil
}
