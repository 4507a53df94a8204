package notify

import (
	"github.com/gen2brain/beeep"
)

const maxBodyLen = 240

// Sender posts a notification somewhere the user will see it.
type Sender interface {
	Send(n Notification) error
}

// OSSender posts desktop notifications.
type OSSender struct {
	ProjectName string
}

// Send posts n as a desktop notification. Empty notifications are skipped.
func (s OSSender) Send(n Notification) error {
	if n.Empty() {
		return nil
	}
	title := n.Title
	if n.Summary != "" {
		title += " from " + n.Summary
	}
	if s.ProjectName != "" {
		title = s.ProjectName + " · " + title
	}
	return beeep.Notify(title, truncate(n.Body(), maxBodyLen), "")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
