// Package notify turns the conversation map into the text of an OS
// notification and posts it.
package notify

import (
	"strings"

	"github.com/adamavenir/huddle/internal/conversations"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Notification is what gets shown for the current conversation map.
type Notification struct {
	Title   string
	Summary string
	Count   int
	Names   []string
	Lines   []conversations.Line
}

// Build summarizes every conversation in m.
func Build(m *conversations.Map) Notification {
	count := conversations.TotalCount(m)
	names := conversations.DistinctNames(m)
	return Notification{
		Title:   english.Plural(count, "new message", ""),
		Summary: strings.Join(names, ", "),
		Count:   count,
		Names:   names,
		Lines:   conversations.Summarize(m),
	}
}

// Empty reports whether there is nothing to show.
func (n Notification) Empty() bool {
	return n.Count == 0
}

// Body joins the plain text of every line, one per row.
func (n Notification) Body() string {
	rows := make([]string, 0, len(n.Lines))
	for _, line := range n.Lines {
		rows = append(rows, Text(line))
	}
	return strings.Join(rows, "\n")
}

// Text renders a line without styling.
func Text(line conversations.Line) string {
	return line.Header + " " + line.Body
}

// Render renders a line for a terminal with the header in bold.
func Render(line conversations.Line) string {
	return headerStyle.Render(line.Header) + " " + line.Body
}
