package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Gender values. Only GenderMale profiles are discoverable.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Profile struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	UserID             *uuid.UUID     `json:"user_id" db:"user_id"`
	DisplayName        string         `json:"display_name" db:"display_name"`
	Gender             string         `json:"gender" db:"gender"`
	BirthDate          *time.Time     `json:"birth_date" db:"birth_date"`
	City               *string        `json:"city" db:"city"`
	Bio                *string        `json:"bio" db:"bio"`
	Ethnicity          *string        `json:"ethnicity" db:"ethnicity"`
	Languages          pq.StringArray `json:"languages" db:"languages"`
	LookingFor         *string        `json:"looking_for" db:"looking_for"`
	CustodyInvolvement *string        `json:"custody_involvement" db:"custody_involvement"`
	ConceptionMethod   *string        `json:"conception_method" db:"conception_method"`
	OpenToRelocation   *bool          `json:"open_to_relocation" db:"open_to_relocation"`
	IsPublic           bool           `json:"is_public" db:"is_public"`
	IsActive           bool           `json:"is_active" db:"is_active"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether the profile is linked to the given identity.
func (p *Profile) OwnedBy(userID uuid.UUID) bool {
	return p.UserID != nil && *p.UserID == userID
}

// IsVisible reports whether other users may see the profile at all.
func (p *Profile) IsVisible() bool {
	return p.IsPublic && p.IsActive
}

// Age returns the age in whole years at now, or false when no birth date is known.
func (p *Profile) Age(now time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	bd := p.BirthDate.UTC()
	now = now.UTC()
	age := now.Year() - bd.Year()
	if now.Month() < bd.Month() || (now.Month() == bd.Month() && now.Day() < bd.Day()) {
		age--
	}
	return age, true
}

// ProfileView is a profile as shown to API clients, with the derived age.
type ProfileView struct {
	*Profile
	Age *int `json:"age"`
}

func NewProfileView(p *Profile, now time.Time) *ProfileView {
	v := &ProfileView{Profile: p}
	if age, ok := p.Age(now); ok {
		v.Age = &age
	}
	return v
}
