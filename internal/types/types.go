package types

// RecipientKind identifies the shape of a message's recipient.
type RecipientKind string

const (
	RecipientStream  RecipientKind = "stream"
	RecipientGroup   RecipientKind = "group"
	RecipientPrivate RecipientKind = "private"
)

// FlagRead marks a message the user has already read.
const FlagRead = "read"

// Recipient describes who a message was sent to.
type Recipient struct {
	Kind   RecipientKind `json:"kind"`
	Stream string        `json:"stream,omitempty"`
	Topic  string        `json:"topic,omitempty"`
	Emails []string      `json:"emails,omitempty"`
	Email  string        `json:"email,omitempty"`
}

// Sender identifies the author of a message.
type Sender struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Message is a pushed message as seen by the notification aggregator.
type Message struct {
	ID        int64     `json:"id"`
	Sender    Sender    `json:"sender"`
	Recipient Recipient `json:"recipient"`
	Content   string    `json:"content"`
	Flags     []string  `json:"flags,omitempty"`
}

// RemoveEvent asks for messages to be dropped from every conversation.
type RemoveEvent struct {
	MessageIDs []int64 `json:"message_ids"`
}

// NarrowElement is one filter term of a narrow.
type NarrowElement struct {
	Operator string `json:"operator"`
	Operand  string `json:"operand"`
}

// Narrow selects a slice of the conversation universe. The empty narrow is home.
type Narrow []NarrowElement

// FetchedMessage is the part of a fetched message the caught-up tracker looks at.
type FetchedMessage struct {
	ID    int64    `json:"id"`
	Flags []string `json:"flags,omitempty"`
}

// Read reports whether the fetched message carries the read flag.
func (m FetchedMessage) Read() bool {
	return HasFlag(m.Flags, FlagRead)
}

// CaughtUp records whether the client holds every older/newer message of a narrow.
type CaughtUp struct {
	Older bool `json:"older"`
	Newer bool `json:"newer"`
}

// HasFlag reports whether flag is present in flags.
func HasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
