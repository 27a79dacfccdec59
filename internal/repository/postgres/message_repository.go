package postgres

import (
	"context"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const messageColumns = `id, conversation_id, sender_id, body, created_at`

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Append(ctx context.Context, msg *domain.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Upstream("messages.begin", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.ConversationID, msg.SenderID, msg.Body, msg.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domain.ErrConversationNotFound
		}
		return domain.Upstream("messages.insert", err)
	}

	// GREATEST keeps the bump monotonic when a retried or delayed insert lands late.
	_, err = tx.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2),
		    updated_at = $2
		WHERE id = $1
	`, msg.ConversationID, msg.CreatedAt)
	if err != nil {
		return domain.Upstream("conversations.touch", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Upstream("messages.commit", err)
	}
	return nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, since *time.Time) ([]*domain.Message, error) {
	messages := make([]*domain.Message, 0)
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		  AND ($2::timestamptz IS NULL OR created_at > $2)
		ORDER BY created_at ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID, since); err != nil {
		return nil, domain.Upstream("messages.list", err)
	}
	return messages, nil
}

func (r *messageRepository) ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.Message, error) {
	grouped := make(map[uuid.UUID][]*domain.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return grouped, nil
	}

	var messages []*domain.Message
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &messages, query, uuidArray(conversationIDs)); err != nil {
		return nil, domain.Upstream("messages.list_many", err)
	}
	for _, m := range messages {
		grouped[m.ConversationID] = append(grouped[m.ConversationID], m)
	}
	return grouped, nil
}
