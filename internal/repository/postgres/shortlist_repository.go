package postgres

import (
	"context"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type shortlistRepository struct {
	db *sqlx.DB
}

func NewShortlistRepository(db *sqlx.DB) repository.ShortlistRepository {
	return &shortlistRepository{db: db}
}

func (r *shortlistRepository) Add(ctx context.Context, entry *domain.ShortlistEntry) error {
	query := `
		INSERT INTO shortlist (user_id, candidate_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, entry.UserID, entry.CandidateID, entry.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return domain.ErrAlreadyShortlisted
		case foreignKeyViolation:
			return domain.ErrCandidateNotFound
		}
		return domain.Upstream("shortlist.add", err)
	}
	return nil
}

func (r *shortlistRepository) Remove(ctx context.Context, userID, candidateID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shortlist WHERE user_id = $1 AND candidate_id = $2`, userID, candidateID)
	if err != nil {
		return domain.Upstream("shortlist.remove", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Upstream("shortlist.remove", err)
	}
	if rows == 0 {
		return domain.ErrShortlistEntryNotFound
	}
	return nil
}

func (r *shortlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ShortlistEntry, error) {
	entries := make([]*domain.ShortlistEntry, 0)
	query := `
		SELECT user_id, candidate_id, created_at
		FROM shortlist
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, domain.Upstream("shortlist.list", err)
	}
	return entries, nil
}
