package profile

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const minimumAge = 18

// Invalidator drops derived data that embeds profile visibility.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	invalidator Invalidator
	validate    *validator.Validate
	now         func() time.Time
}

type Option func(*ProfileUseCase)

// WithInvalidator runs inv when a user publishes or hides their profile.
func WithInvalidator(inv Invalidator) Option {
	return func(uc *ProfileUseCase) { uc.invalidator = inv }
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, opts ...Option) *ProfileUseCase {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	uc := &ProfileUseCase{
		profileRepo: profileRepo,
		validate:    v,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// UpdateProfileRequest represents a partial profile update. Nil fields are left
// untouched; empty strings clear optional text fields.
type UpdateProfileRequest struct {
	DisplayName        *string   `json:"display_name" validate:"omitempty,min=2,max=100"`
	Gender             *string   `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate          *string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	City               *string   `json:"city" validate:"omitempty,max=100"`
	Bio                *string   `json:"bio" validate:"omitempty,max=1000"`
	Ethnicity          *string   `json:"ethnicity" validate:"omitempty,max=50"`
	Languages          *[]string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=30"`
	LookingFor         *string   `json:"looking_for" validate:"omitempty,max=200"`
	CustodyInvolvement *string   `json:"custody_involvement" validate:"omitempty,max=50"`
	ConceptionMethod   *string   `json:"conception_method" validate:"omitempty,max=100"`
	OpenToRelocation   *bool     `json:"open_to_relocation"`
	IsPublic           *bool     `json:"is_public"`
}

// CreateProfileRequest represents profile creation for the calling identity.
type CreateProfileRequest struct {
	DisplayName        string   `json:"display_name" validate:"required,min=2,max=100"`
	Gender             string   `json:"gender" validate:"required,oneof=male female other"`
	BirthDate          *string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	City               *string  `json:"city" validate:"omitempty,max=100"`
	Bio                *string  `json:"bio" validate:"omitempty,max=1000"`
	Ethnicity          *string  `json:"ethnicity" validate:"omitempty,max=50"`
	Languages          []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=30"`
	LookingFor         *string  `json:"looking_for" validate:"omitempty,max=200"`
	CustodyInvolvement *string  `json:"custody_involvement" validate:"omitempty,max=50"`
	ConceptionMethod   *string  `json:"conception_method" validate:"omitempty,max=100"`
	OpenToRelocation   *bool    `json:"open_to_relocation"`
	IsPublic           bool     `json:"is_public"`
}

func (r *CreateProfileRequest) asUpdate() *UpdateProfileRequest {
	u := &UpdateProfileRequest{
		DisplayName:        &r.DisplayName,
		Gender:             &r.Gender,
		BirthDate:          r.BirthDate,
		City:               r.City,
		Bio:                r.Bio,
		Ethnicity:          r.Ethnicity,
		LookingFor:         r.LookingFor,
		CustodyInvolvement: r.CustodyInvolvement,
		ConceptionMethod:   r.ConceptionMethod,
		OpenToRelocation:   r.OpenToRelocation,
		IsPublic:           &r.IsPublic,
	}
	if r.Languages != nil {
		u.Languages = &r.Languages
	}
	return u
}

// CreateProfile creates the profile linked to userID (onboarding). Each identity
// owns at most one profile.
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*domain.ProfileView, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if req == nil {
		return nil, domain.NewValidationError("", "request body is required")
	}
	if err := uc.checkStruct(req); err != nil {
		return nil, err
	}
	update := req.asUpdate()
	if err := uc.validateRequest(update); err != nil {
		return nil, err
	}

	// Check if profile already exists
	if _, err := uc.profileRepo.GetByUserID(ctx, userID); err == nil {
		return nil, domain.ErrProfileAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profile := &domain.Profile{UserID: &userID, IsActive: true}
	if err := uc.apply(profile, update); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return domain.NewProfileView(profile, uc.now()), nil
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfileView, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewProfileView(profile, uc.now()), nil
}

// GetProfile returns a profile by id. Hidden profiles of other users are
// reported as not found.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, profileID, viewerUserID uuid.UUID) (*domain.ProfileView, error) {
	if viewerUserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.OwnedBy(viewerUserID) && !profile.IsVisible() {
		return nil, domain.ErrProfileNotFound
	}
	return domain.NewProfileView(profile, uc.now()), nil
}

// UpdateProfile updates user profile
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*domain.ProfileView, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.apply(profile, req); err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if req.IsPublic != nil && uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx)
	}

	return domain.NewProfileView(profile, uc.now()), nil
}

// apply copies the set fields of req onto profile.
func (uc *ProfileUseCase) apply(profile *domain.Profile, req *UpdateProfileRequest) error {
	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			profile.BirthDate = nil
		} else {
			bd, err := uc.parseBirthDate(*req.BirthDate)
			if err != nil {
				return err
			}
			profile.BirthDate = &bd
		}
	}
	if req.Languages != nil {
		langs := make([]string, 0, len(*req.Languages))
		for _, l := range *req.Languages {
			langs = append(langs, strings.TrimSpace(l))
		}
		profile.Languages = langs
	}
	if req.OpenToRelocation != nil {
		profile.OpenToRelocation = req.OpenToRelocation
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}
	setText(&profile.City, req.City)
	setText(&profile.Bio, req.Bio)
	setText(&profile.Ethnicity, req.Ethnicity)
	setText(&profile.LookingFor, req.LookingFor)
	setText(&profile.CustodyInvolvement, req.CustodyInvolvement)
	setText(&profile.ConceptionMethod, req.ConceptionMethod)
	return nil
}

func (uc *ProfileUseCase) validateRequest(req *UpdateProfileRequest) error {
	if req == nil {
		return domain.NewValidationError("", "request body is required")
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return domain.NewValidationError("display_name", "must not be empty")
	}
	return uc.checkStruct(req)
}

// checkStruct runs the validate tags and reports the first failing field.
func (uc *ProfileUseCase) checkStruct(req interface{}) error {
	err := uc.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fieldName(fe), describe(fe))
	}
	return domain.NewValidationError("", err.Error())
}

func (uc *ProfileUseCase) parseBirthDate(raw string) (time.Time, error) {
	bd, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format")
	}
	now := uc.now()
	if bd.After(now) {
		return time.Time{}, domain.NewValidationError("birth_date", "must not be in the future")
	}
	if age, _ := (&domain.Profile{BirthDate: &bd}).Age(now); age < minimumAge {
		return time.Time{}, domain.NewValidationError("birth_date", fmt.Sprintf("must be at least %d years old", minimumAge))
	}
	return bd, nil
}

// fieldName strips the slice index validator appends for dive errors.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.Index(name, "["); i > 0 {
		name = name[:i]
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind().String() == "slice" {
			return "must have at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid"
}

func setText(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
