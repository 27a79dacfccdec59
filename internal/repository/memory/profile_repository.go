package memory

import (
	"context"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type profileRepo struct {
	s *Store
}

func (r *profileRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if profile.UserID != nil {
		for _, p := range r.s.profiles {
			if p.OwnedBy(*profile.UserID) {
				return domain.ErrProfileAlreadyExists
			}
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if _, ok := r.s.profiles[profile.ID]; ok {
		return domain.ErrProfileAlreadyExists
	}
	profile.CreatedAt = r.s.now()
	profile.UpdatedAt = profile.CreatedAt
	r.s.profileOrder = append(r.s.profileOrder, profile.ID)
	r.s.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (r *profileRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *profileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.profileOrder {
		if p := r.s.profiles[id]; p.OwnedBy(userID) {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *profileRepo) GetByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	out := make([]*domain.Profile, 0, len(userIDs))
	for _, id := range r.s.profileOrder {
		p := r.s.profiles[id]
		if p.UserID == nil {
			continue
		}
		if _, ok := wanted[*p.UserID]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *profileRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *profileRepo) ListDiscoverable(_ context.Context, excludeUserID uuid.UUID) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Profile, 0)
	// newest first, like the SQL gateway
	for i := len(r.s.profileOrder) - 1; i >= 0; i-- {
		p := r.s.profiles[r.s.profileOrder[i]]
		if !p.IsVisible() || p.Gender != domain.GenderMale || p.OwnedBy(excludeUserID) {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (r *profileRepo) List(_ context.Context, limit, offset int) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Profile, 0)
	for i := len(r.s.profileOrder) - 1; i >= 0; i-- {
		out = append(out, cloneProfile(r.s.profiles[r.s.profileOrder[i]]))
	}
	if offset >= len(out) {
		return []*domain.Profile{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *profileRepo) Update(_ context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.profiles[profile.ID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = r.s.now()
	r.s.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (r *profileRepo) SetVisibility(_ context.Context, id uuid.UUID, isPublic, isActive bool) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.IsPublic = isPublic
	p.IsActive = isActive
	p.UpdatedAt = r.s.now()
	return cloneProfile(p), nil
}
