package repository

import (
	"context"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type ShortlistRepository interface {
	// Add returns domain.ErrAlreadyShortlisted when the pair exists.
	Add(ctx context.Context, entry *domain.ShortlistEntry) error
	Remove(ctx context.Context, userID, candidateID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ShortlistEntry, error)
}

type RoleRepository interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	Grant(ctx context.Context, userID uuid.UUID, role string) error
	Revoke(ctx context.Context, userID uuid.UUID, role string) error
}
