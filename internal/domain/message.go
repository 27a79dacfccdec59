package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength is the longest accepted message body, in runes.
const MaxMessageLength = 4000

type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	Body           string    `json:"text" db:"body"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SortMessages orders messages by creation time ascending. Equal timestamps keep
// their relative order.
func SortMessages(list []*Message) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
