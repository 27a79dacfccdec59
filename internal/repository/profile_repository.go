package repository

import (
	"context"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	// Create inserts profile, assigning its id and timestamps. A second profile
	// for the same user_id fails with domain.ErrProfileAlreadyExists.
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
	// ListDiscoverable returns public, active, male profiles not owned by excludeUserID.
	ListDiscoverable(ctx context.Context, excludeUserID uuid.UUID) ([]*domain.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	SetVisibility(ctx context.Context, id uuid.UUID, isPublic, isActive bool) (*domain.Profile, error)
}
