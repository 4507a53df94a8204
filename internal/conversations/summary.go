package conversations

import "strings"

// Line is one row of a notification: a bold header naming the senders and
// the latest message of the conversation.
type Line struct {
	Key    string
	Names  []string
	Header string
	Body   string
}

// Summarize builds one line per conversation, in conversation order.
func Summarize(m *Map) []Line {
	lines := make([]Line, 0, len(m.order))
	for _, key := range m.order {
		bucket := m.buckets[key]
		names := appendNewNames(nil, map[string]struct{}{}, bucket)
		lines = append(lines, Line{
			Key:    key,
			Names:  names,
			Header: strings.Join(names, ", ") + ":",
			Body:   bucket[len(bucket)-1].Content,
		})
	}
	return lines
}
