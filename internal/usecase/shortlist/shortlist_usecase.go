// Package shortlist keeps each user's saved candidate profiles.
package shortlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
)

type Recorder interface {
	ShortlistAdded()
}

type ShortlistUseCase struct {
	shortlistRepo repository.ShortlistRepository
	profileRepo   repository.ProfileRepository
	metrics       Recorder
	now           func() time.Time
}

func NewShortlistUseCase(shortlistRepo repository.ShortlistRepository, profileRepo repository.ProfileRepository, metrics Recorder) *ShortlistUseCase {
	return &ShortlistUseCase{
		shortlistRepo: shortlistRepo,
		profileRepo:   profileRepo,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ShortlistItem is an entry joined with the candidate profile. Profile is nil
// when the profile row no longer resolves or has been hidden since.
type ShortlistItem struct {
	*domain.ShortlistEntry
	Profile *domain.ProfileView `json:"profile"`
}

// Add shortlists candidateProfileID for userID. Adding an entry that already
// exists succeeds without changes; added reports whether a row was created.
func (uc *ShortlistUseCase) Add(ctx context.Context, userID, candidateProfileID uuid.UUID) (added bool, err error) {
	if userID == uuid.Nil {
		return false, domain.ErrUnauthenticated
	}
	candidate, err := uc.profileRepo.GetByID(ctx, candidateProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrCandidateNotFound
		}
		return false, fmt.Errorf("failed to resolve candidate: %w", err)
	}
	if candidate.OwnedBy(userID) {
		return false, domain.NewValidationError("candidate_id", "cannot shortlist your own profile")
	}
	if !candidate.IsVisible() {
		return false, domain.ErrCandidateNotFound
	}

	err = uc.shortlistRepo.Add(ctx, &domain.ShortlistEntry{
		UserID:      userID,
		CandidateID: candidateProfileID,
		CreatedAt:   uc.now(),
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyShortlisted):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to add to shortlist: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.ShortlistAdded()
	}
	return true, nil
}

func (uc *ShortlistUseCase) Remove(ctx context.Context, userID, candidateProfileID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return uc.shortlistRepo.Remove(ctx, userID, candidateProfileID)
}

// List returns the user's shortlist, newest first.
func (uc *ShortlistUseCase) List(ctx context.Context, userID uuid.UUID) ([]*ShortlistItem, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	entries, err := uc.shortlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlist: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CandidateID)
	}
	profiles, err := uc.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load shortlisted profiles: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	now := uc.now()
	items := make([]*ShortlistItem, 0, len(entries))
	for _, e := range entries {
		item := &ShortlistItem{ShortlistEntry: e}
		if p, ok := byID[e.CandidateID]; ok && p.IsVisible() {
			item.Profile = domain.NewProfileView(p, now)
		}
		items = append(items, item)
	}
	return items, nil
}
