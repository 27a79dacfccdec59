// Package discover produces the browsable candidate set for a viewer.
package discover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cache stores the gateway's discoverable set per viewer.
type Cache interface {
	GetProfiles(ctx context.Context, key string) ([]*domain.Profile, bool, error)
	SetProfiles(ctx context.Context, key string, profiles []*domain.Profile, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const cacheKeyPrefix = "discover:"

type Recorder interface {
	CacheLookup(result string)
}

type DiscoverUseCase struct {
	profileRepo repository.ProfileRepository
	cache       Cache
	cacheTTL    time.Duration
	metrics     Recorder
	logger      *slog.Logger
	now         func() time.Time
}

// NewDiscoverUseCase builds the use case. cache and metrics may be nil.
func NewDiscoverUseCase(profileRepo repository.ProfileRepository, cache Cache, cacheTTL time.Duration, metrics Recorder, logger *slog.Logger) *DiscoverUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverUseCase{
		profileRepo: profileRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger.With("component", "discover"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type BrowseResult struct {
	Profiles []*domain.ProfileView `json:"profiles"`
	Total    int                   `json:"total"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
}

// Browse returns one page of eligible profiles matching filters.
func (uc *DiscoverUseCase) Browse(ctx context.Context, viewerUserID uuid.UUID, filters Filters, limit, offset int) (*BrowseResult, error) {
	if viewerUserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	viewer := Viewer{UserID: viewerUserID}
	own, err := uc.profileRepo.GetByUserID(ctx, viewerUserID)
	switch {
	case err == nil:
		viewer.ProfileID = own.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to resolve viewer profile: %w", err)
	}

	candidates, err := uc.discoverable(ctx, viewerUserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	matched := Apply(candidates, viewer, filters, now)

	result := &BrowseResult{
		Profiles: []*domain.ProfileView{},
		Total:    len(matched),
		Limit:    limit,
		Offset:   offset,
	}
	if offset >= len(matched) {
		return result, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, p := range matched[offset:end] {
		result.Profiles = append(result.Profiles, domain.NewProfileView(p, now))
	}
	return result, nil
}

func (uc *DiscoverUseCase) discoverable(ctx context.Context, viewerUserID uuid.UUID) ([]*domain.Profile, error) {
	key := cacheKeyPrefix + viewerUserID.String()

	if uc.cache != nil {
		cached, ok, err := uc.cache.GetProfiles(ctx, key)
		switch {
		case err != nil:
			uc.record("error")
			uc.logger.WarnContext(ctx, "discover cache read failed", "error", err)
		case ok:
			uc.record("hit")
			return cached, nil
		default:
			uc.record("miss")
		}
	}

	profiles, err := uc.profileRepo.ListDiscoverable(ctx, viewerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list discoverable profiles: %w", err)
	}

	if uc.cache != nil && uc.cacheTTL > 0 {
		if err := uc.cache.SetProfiles(ctx, key, profiles, uc.cacheTTL); err != nil {
			uc.logger.WarnContext(ctx, "discover cache write failed", "error", err)
		}
	}
	return profiles, nil
}

func (uc *DiscoverUseCase) record(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookup(result)
	}
}

// Invalidate drops every cached discover result. Call it after a profile's
// visibility changes so hidden profiles stop being served before the TTL runs out.
// Failures are logged; the entries still expire on their own.
func (uc *DiscoverUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cacheKeyPrefix); err != nil {
		uc.logger.WarnContext(ctx, "discover cache invalidation failed", "error", err)
	}
}
