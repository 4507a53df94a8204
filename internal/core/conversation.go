package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adamavenir/huddle/internal/types"
)

// ErrUnknownRecipient is returned for a recipient shape no conversation key exists for.
var ErrUnknownRecipient = errors.New("unknown recipient kind")

// ConversationKey computes the bucket key for a message:
//
//	stream message  - {stream}:stream
//	group message   - {sorted emails}:group
//	private message - {sender email}:private
func ConversationKey(msg types.Message) (string, error) {
	recipient := msg.Recipient
	switch recipient.Kind {
	case types.RecipientStream:
		return fmt.Sprintf("%s:stream", recipient.Stream), nil
	case types.RecipientGroup:
		return fmt.Sprintf("%s:group", groupEmails(recipient.Emails)), nil
	case types.RecipientPrivate:
		return fmt.Sprintf("%s:private", msg.Sender.Email), nil
	default:
		return "", fmt.Errorf("message %d: %w %q", msg.ID, ErrUnknownRecipient, recipient.Kind)
	}
}

func groupEmails(emails []string) string {
	sorted := append([]string(nil), emails...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
