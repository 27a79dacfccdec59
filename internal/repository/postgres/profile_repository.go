package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, user_id, display_name, gender, birth_date, city, bio, ethnicity, languages,
	looking_for, custody_involvement, conception_method, open_to_relocation,
	is_public, is_active, created_at, updated_at`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Languages == nil {
		profile.Languages = pq.StringArray{}
	}
	query := `
		INSERT INTO profiles (
			id, user_id, display_name, gender, birth_date, city, bio, ethnicity, languages,
			looking_for, custody_involvement, conception_method, open_to_relocation,
			is_public, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.UserID, profile.DisplayName, profile.Gender, profile.BirthDate,
		profile.City, profile.Bio, profile.Ethnicity, profile.Languages,
		profile.LookingFor, profile.CustodyInvolvement, profile.ConceptionMethod, profile.OpenToRelocation,
		profile.IsPublic, profile.IsActive,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return domain.ErrProfileAlreadyExists
		}
		return domain.Upstream("profiles.create", err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.Upstream("profiles.get_by_id", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 ORDER BY created_at LIMIT 1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.Upstream("profiles.get_by_user_id", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0)
	if len(userIDs) == 0 {
		return profiles, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &profiles, query, uuidArray(userIDs)); err != nil {
		return nil, domain.Upstream("profiles.get_by_user_ids", err)
	}
	return profiles, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0)
	if len(ids) == 0 {
		return profiles, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &profiles, query, uuidArray(ids)); err != nil {
		return nil, domain.Upstream("profiles.get_by_ids", err)
	}
	return profiles, nil
}

func (r *profileRepository) ListDiscoverable(ctx context.Context, excludeUserID uuid.UUID) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0)
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE is_public = true
		  AND is_active = true
		  AND gender = $1
		  AND (user_id IS NULL OR user_id <> $2)
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &profiles, query, domain.GenderMale, excludeUserID); err != nil {
		return nil, domain.Upstream("profiles.list_discoverable", err)
	}
	return profiles, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0)
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &profiles, query, limit, offset); err != nil {
		return nil, domain.Upstream("profiles.list", err)
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, gender = $2, birth_date = $3, city = $4, bio = $5,
		    ethnicity = $6, languages = $7, looking_for = $8, custody_involvement = $9,
		    conception_method = $10, open_to_relocation = $11, is_public = $12, is_active = $13,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $14
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.DisplayName, profile.Gender, profile.BirthDate, profile.City, profile.Bio,
		profile.Ethnicity, profile.Languages, profile.LookingFor, profile.CustodyInvolvement,
		profile.ConceptionMethod, profile.OpenToRelocation, profile.IsPublic, profile.IsActive,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProfileNotFound
		}
		return domain.Upstream("profiles.update", err)
	}
	return nil
}

func (r *profileRepository) SetVisibility(ctx context.Context, id uuid.UUID, isPublic, isActive bool) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		UPDATE profiles
		SET is_public = $1, is_active = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING ` + profileColumns
	err := r.db.GetContext(ctx, &profile, query, isPublic, isActive, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.Upstream("profiles.set_visibility", err)
	}
	return &profile, nil
}
