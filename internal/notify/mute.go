package notify

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Muter matches conversation keys against mute patterns such as
// "design:stream" or "*:group".
type Muter struct {
	patterns []glob.Glob
}

// NewMuter compiles the given patterns.
func NewMuter(patterns []string) (*Muter, error) {
	m := &Muter{}
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid mute pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, matcher)
	}
	return m, nil
}

// Muted reports whether notifications for the conversation key are suppressed.
func (m *Muter) Muted(key string) bool {
	if m == nil {
		return false
	}
	for _, matcher := range m.patterns {
		if matcher.Match(key) {
			return true
		}
	}
	return false
}
