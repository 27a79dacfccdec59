// Package admin holds role checks and profile moderation.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Invalidator drops derived data that embeds profile visibility.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type AdminUseCase struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	invalidator Invalidator
}

type Option func(*AdminUseCase)

// WithInvalidator runs inv after every visibility change.
func WithInvalidator(inv Invalidator) Option {
	return func(uc *AdminUseCase) { uc.invalidator = inv }
}

func NewAdminUseCase(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository, opts ...Option) *AdminUseCase {
	uc := &AdminUseCase{
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// HasRole reports whether userID holds role.
func (uc *AdminUseCase) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	if userID == uuid.Nil {
		return false, domain.ErrUnauthenticated
	}
	ok, err := uc.roleRepo.HasRole(ctx, userID, role)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return ok, nil
}

func (uc *AdminUseCase) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	role, err := normalizeRole(userID, role)
	if err != nil {
		return err
	}
	return uc.roleRepo.Grant(ctx, userID, role)
}

func (uc *AdminUseCase) RevokeRole(ctx context.Context, userID uuid.UUID, role string) error {
	role, err := normalizeRole(userID, role)
	if err != nil {
		return err
	}
	return uc.roleRepo.Revoke(ctx, userID, role)
}

// ListProfiles pages through every profile, hidden ones included.
func (uc *AdminUseCase) ListProfiles(ctx context.Context, limit, offset int) ([]*domain.ProfileView, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	profiles, err := uc.profileRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	now := time.Now().UTC()
	views := make([]*domain.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, domain.NewProfileView(p, now))
	}
	return views, nil
}

func (uc *AdminUseCase) SetVisibility(ctx context.Context, profileID uuid.UUID, isPublic, isActive bool) (*domain.Profile, error) {
	profile, err := uc.profileRepo.SetVisibility(ctx, profileID, isPublic, isActive)
	if err != nil {
		return nil, err
	}
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx)
	}
	return profile, nil
}

func normalizeRole(userID uuid.UUID, role string) (string, error) {
	if userID == uuid.Nil {
		return "", domain.NewValidationError("user_id", "is required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return "", domain.NewValidationError("role", "is required")
	}
	return role, nil
}
