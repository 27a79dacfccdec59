package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	StatusActive     ConversationStatus = "active"
	StatusInterested ConversationStatus = "interested"
	StatusDeclined   ConversationStatus = "declined"
	StatusArchived   ConversationStatus = "archived"
)

// Valid reports whether s is a known status. Any valid status may follow any other.
func (s ConversationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInterested, StatusDeclined, StatusArchived:
		return true
	}
	return false
}

// PartyRole identifies which side of a conversation an identity is on.
type PartyRole string

const (
	RoleSeeker    PartyRole = "seeker"
	RoleCandidate PartyRole = "candidate"
)

type Conversation struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	UserID        uuid.UUID          `json:"user_id" db:"user_id"`
	CandidateID   uuid.UUID          `json:"candidate_id" db:"candidate_id"`
	Status        ConversationStatus `json:"status" db:"status"`
	LastMessageAt *time.Time         `json:"last_message_at" db:"last_message_at"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}

func (c *Conversation) HasParty(userID uuid.UUID) bool {
	return c.UserID == userID || c.CandidateID == userID
}

// RoleOf returns the side userID is on. The seeker side wins if both ids are equal.
func (c *Conversation) RoleOf(userID uuid.UUID) (PartyRole, bool) {
	if c.UserID == userID {
		return RoleSeeker, true
	}
	if c.CandidateID == userID {
		return RoleCandidate, true
	}
	return "", false
}

func (c *Conversation) CounterpartOf(userID uuid.UUID) (uuid.UUID, bool) {
	if c.UserID == userID {
		return c.CandidateID, true
	}
	if c.CandidateID == userID {
		return c.UserID, true
	}
	return uuid.Nil, false
}

// ConversationDetail is a conversation joined with everything a party needs to render it.
type ConversationDetail struct {
	*Conversation
	Counterpart *Profile             `json:"counterpart,omitempty"`
	Messages    []*Message           `json:"messages"`
	Topics      []*ConversationTopic `json:"topics"`
}

// SortConversations orders by last_message_at descending with nulls last,
// then created_at descending.
func SortConversations(list []*Conversation) {
	sort.SliceStable(list, func(i, j int) bool {
		return conversationLess(list[i], list[j])
	})
}

// SortConversationDetails applies the SortConversations ordering to details.
func SortConversationDetails(list []*ConversationDetail) {
	sort.SliceStable(list, func(i, j int) bool {
		return conversationLess(list[i].Conversation, list[j].Conversation)
	})
}

func conversationLess(a, b *Conversation) bool {
	switch {
	case a.LastMessageAt != nil && b.LastMessageAt == nil:
		return true
	case a.LastMessageAt == nil && b.LastMessageAt != nil:
		return false
	case a.LastMessageAt != nil && b.LastMessageAt != nil && !a.LastMessageAt.Equal(*b.LastMessageAt):
		return a.LastMessageAt.After(*b.LastMessageAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
