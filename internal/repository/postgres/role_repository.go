package postgres

import (
	"context"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type roleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, role); err != nil {
		return false, domain.Upstream("user_roles.has_role", err)
	}
	return exists, nil
}

func (r *roleRepository) Grant(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, role)
	if err != nil {
		return domain.Upstream("user_roles.grant", err)
	}
	return nil
}

func (r *roleRepository) Revoke(ctx context.Context, userID uuid.UUID, role string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role); err != nil {
		return domain.Upstream("user_roles.revoke", err)
	}
	return nil
}
