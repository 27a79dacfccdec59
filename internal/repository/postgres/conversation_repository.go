package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const conversationColumns = `id, user_id, candidate_id, status, last_message_at, created_at, updated_at`

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	err := r.db.GetContext(ctx, &conv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, domain.Upstream("conversations.get_by_id", err)
	}
	return &conv, nil
}

func (r *conversationRepository) GetByParties(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE (user_id = $1 AND candidate_id = $2) OR (user_id = $2 AND candidate_id = $1)
		ORDER BY created_at
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &conv, query, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, domain.Upstream("conversations.get_by_parties", err)
	}
	return &conv, nil
}

// CreateIfAbsent relies on the unique (LEAST, GREATEST) pair index, so two racing
// callers end up with the same row.
func (r *conversationRepository) CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (bool, error) {
	query := `
		INSERT INTO conversations (id, user_id, candidate_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT DO NOTHING
		RETURNING ` + conversationColumns
	err := r.db.GetContext(ctx, conv, query, conv.ID, conv.UserID, conv.CandidateID, conv.Status, conv.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, domain.Upstream("conversations.create", err)
	}

	existing, err := r.GetByParties(ctx, conv.UserID, conv.CandidateID)
	if err != nil {
		return false, err
	}
	*conv = *existing
	return false, nil
}

func (r *conversationRepository) ListForParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	convs := make([]*domain.Conversation, 0)
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1 OR candidate_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, domain.Upstream("conversations.list_for_participant", err)
	}
	return convs, nil
}

func (r *conversationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ConversationStatus, at time.Time) (*domain.Conversation, error) {
	var conv domain.Conversation
	query := `
		UPDATE conversations
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + conversationColumns
	err := r.db.GetContext(ctx, &conv, query, status, at, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, domain.Upstream("conversations.update_status", err)
	}
	return &conv, nil
}
