package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// GetByParties finds the conversation between a and b in either orientation.
	GetByParties(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error)
	// CreateIfAbsent inserts conv unless a conversation for the unordered pair exists.
	// On conflict conv is overwritten with the stored row and created is false.
	CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (created bool, err error)
	ListForParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ConversationStatus, at time.Time) (*domain.Conversation, error)
}

type MessageRepository interface {
	// Append stores msg and advances the conversation's last_message_at in one step.
	Append(ctx context.Context, msg *domain.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID, since *time.Time) ([]*domain.Message, error)
	ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.Message, error)
}

type TopicRepository interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.ConversationTopic, error)
	ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.ConversationTopic, error)
	// SetCoverage upserts the row and writes only the column owned by role.
	SetCoverage(ctx context.Context, conversationID uuid.UUID, topicID domain.TopicID, role domain.PartyRole, covered bool, at time.Time) (*domain.ConversationTopic, error)
	// Seed creates missing rows for topicIDs with both flags false.
	Seed(ctx context.Context, conversationID uuid.UUID, topicIDs []domain.TopicID, at time.Time) error
}
