package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const topicColumns = `conversation_id, topic_id, seeker_covered, candidate_covered, updated_at`

type topicRepository struct {
	db *sqlx.DB
}

func NewTopicRepository(db *sqlx.DB) repository.TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.ConversationTopic, error) {
	rows := make([]*domain.ConversationTopic, 0)
	query := `SELECT ` + topicColumns + ` FROM conversation_topics WHERE conversation_id = $1 ORDER BY topic_id`
	if err := r.db.SelectContext(ctx, &rows, query, conversationID); err != nil {
		return nil, domain.Upstream("conversation_topics.list", err)
	}
	return rows, nil
}

func (r *topicRepository) ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.ConversationTopic, error) {
	grouped := make(map[uuid.UUID][]*domain.ConversationTopic, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return grouped, nil
	}

	var rows []*domain.ConversationTopic
	query := `
		SELECT ` + topicColumns + `
		FROM conversation_topics
		WHERE conversation_id = ANY($1::uuid[])
		ORDER BY conversation_id, topic_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, uuidArray(conversationIDs)); err != nil {
		return nil, domain.Upstream("conversation_topics.list_many", err)
	}
	for _, row := range rows {
		grouped[row.ConversationID] = append(grouped[row.ConversationID], row)
	}
	return grouped, nil
}

func (r *topicRepository) SetCoverage(ctx context.Context, conversationID uuid.UUID, topicID domain.TopicID, role domain.PartyRole, covered bool, at time.Time) (*domain.ConversationTopic, error) {
	var column string
	switch role {
	case domain.RoleSeeker:
		column = "seeker_covered"
	case domain.RoleCandidate:
		column = "candidate_covered"
	default:
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown party role %q", role))
	}

	seeker := role == domain.RoleSeeker && covered
	candidate := role == domain.RoleCandidate && covered

	// Only the requester's column is touched on conflict; the other party's flag survives.
	query := `
		INSERT INTO conversation_topics (conversation_id, topic_id, seeker_covered, candidate_covered, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conversation_id, topic_id)
		DO UPDATE SET ` + column + ` = EXCLUDED.` + column + `, updated_at = EXCLUDED.updated_at
		RETURNING ` + topicColumns

	var row domain.ConversationTopic
	err := r.db.GetContext(ctx, &row, query, conversationID, topicID, seeker, candidate, at)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, domain.ErrConversationNotFound
		}
		return nil, domain.Upstream("conversation_topics.set_coverage", err)
	}
	return &row, nil
}

func (r *topicRepository) Seed(ctx context.Context, conversationID uuid.UUID, topicIDs []domain.TopicID, at time.Time) error {
	ids := make([]string, len(topicIDs))
	for i, id := range topicIDs {
		ids[i] = string(id)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversation_topics (conversation_id, topic_id, seeker_covered, candidate_covered, updated_at)
		SELECT $1, t, false, false, $3
		FROM unnest($2::text[]) AS t
		ON CONFLICT (conversation_id, topic_id) DO NOTHING
	`, conversationID, pq.Array(ids), at)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domain.ErrConversationNotFound
		}
		return domain.Upstream("conversation_topics.seed", err)
	}
	return nil
}
