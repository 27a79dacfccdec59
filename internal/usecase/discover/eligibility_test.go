package discover

import (
	"testing"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func candidate(mutate ...func(*domain.Profile)) *domain.Profile {
	owner := uuid.New()
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &domain.Profile{
		ID:                 uuid.New(),
		UserID:             &owner,
		DisplayName:        "candidate",
		Gender:             domain.GenderMale,
		BirthDate:          &birth,
		Ethnicity:          strPtr("Latino"),
		Languages:          []string{"English", "Spanish"},
		LookingFor:         strPtr("Co-parent open to shared custody"),
		CustodyInvolvement: strPtr("60/40 custody"),
		IsPublic:           true,
		IsActive:           true,
	}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func TestIsEligible(t *testing.T) {
	viewerUser := uuid.New()
	viewerProfile := uuid.New()
	viewer := Viewer{UserID: viewerUser, ProfileID: viewerProfile}

	tests := []struct {
		name    string
		profile *domain.Profile
		want    bool
	}{
		{"public active male", candidate(), true},
		{"not public", candidate(func(p *domain.Profile) { p.IsPublic = false }), false},
		{"inactive", candidate(func(p *domain.Profile) { p.IsActive = false }), false},
		{"female", candidate(func(p *domain.Profile) { p.Gender = domain.GenderFemale }), false},
		{"owned by viewer", candidate(func(p *domain.Profile) { p.UserID = &viewerUser }), false},
		{"viewer's own row without owner link", candidate(func(p *domain.Profile) {
			p.ID = viewerProfile
			p.UserID = nil
		}), false},
		{"unowned seed profile", candidate(func(p *domain.Profile) { p.UserID = nil }), true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.profile, viewer))
		})
	}
}

func TestIsEligible_OwnProfileExcludedByEitherLink(t *testing.T) {
	userID := uuid.New()
	own := candidate(func(p *domain.Profile) { p.UserID = &userID })

	assert.False(t, IsEligible(own, Viewer{UserID: userID}), "by identity only")
	assert.False(t, IsEligible(own, Viewer{ProfileID: own.ID}), "by profile id only")
	assert.True(t, IsEligible(own, Viewer{UserID: uuid.New()}))
}

func TestCustodyPercentage(t *testing.T) {
	tests := map[string]int{
		"60/40 custody":        60,
		"40/60":                40,
		"50/50 shared":         50,
		"":                     50,
		"weekends only":        50,
		"prefer 60/40 or more": 60,
	}
	for label, want := range tests {
		assert.Equal(t, want, CustodyPercentage(label), label)
	}
}

func TestFilters_CustodyRange(t *testing.T) {
	p := candidate()

	assert.True(t, Filters{CustodyMin: intPtr(55), CustodyMax: intPtr(70)}.Matches(p, now))
	assert.False(t, Filters{CustodyMin: intPtr(0), CustodyMax: intPtr(50)}.Matches(p, now))
	assert.True(t, Filters{CustodyMin: intPtr(60), CustodyMax: intPtr(60)}.Matches(p, now), "bounds are inclusive")

	unlabeled := candidate(func(p *domain.Profile) { p.CustodyInvolvement = nil })
	assert.True(t, Filters{CustodyMin: intPtr(0), CustodyMax: intPtr(50)}.Matches(unlabeled, now))
}

func TestFilters_Predicates(t *testing.T) {
	p := candidate() // age 36 at now

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty", Filters{}, true},
		{"age in range", Filters{MinAge: intPtr(30), MaxAge: intPtr(36)}, true},
		{"too young for min", Filters{MinAge: intPtr(37)}, false},
		{"too old for max", Filters{MaxAge: intPtr(35)}, false},
		{"ethnicity case-insensitive", Filters{Ethnicities: []string{"asian", "latino"}}, true},
		{"ethnicity miss", Filters{Ethnicities: []string{"Asian"}}, false},
		{"language overlap", Filters{Languages: []string{"french", "SPANISH"}}, true},
		{"language miss", Filters{Languages: []string{"French"}}, false},
		{"looking for substring", Filters{LookingFor: "shared CUSTODY"}, true},
		{"looking for miss", Filters{LookingFor: "donor"}, false},
		{"blank looking for ignored", Filters{LookingFor: "   "}, true},
		{"all combined", Filters{
			MinAge: intPtr(18), Ethnicities: []string{"Latino"}, Languages: []string{"English"},
			LookingFor: "co-parent", CustodyMin: intPtr(55),
		}, true},
		{"one failing predicate fails all", Filters{
			MinAge: intPtr(18), Ethnicities: []string{"Latino"}, CustodyMax: intPtr(50),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(p, now))
		})
	}
}

func TestFilters_UnknownAgeFailsActiveAgeBound(t *testing.T) {
	p := candidate(func(p *domain.Profile) { p.BirthDate = nil })

	assert.False(t, Filters{MinAge: intPtr(18)}.Matches(p, now))
	assert.True(t, Filters{}.Matches(p, now))
}

func TestApply_ViewerScenario(t *testing.T) {
	viewerUser := uuid.New()
	own := candidate(func(p *domain.Profile) { p.UserID = &viewerUser })
	c1 := candidate()
	c2 := candidate(func(p *domain.Profile) { p.Gender = domain.GenderFemale })

	got := Apply([]*domain.Profile{own, c1, c2}, Viewer{UserID: viewerUser, ProfileID: own.ID}, Filters{}, now)

	assert.Equal(t, []*domain.Profile{c1}, got)
}

func TestApply_HiddenExcludedEvenWhenFiltersMatch(t *testing.T) {
	hidden := candidate(func(p *domain.Profile) { p.IsPublic = false })
	f := Filters{Languages: []string{"English"}, CustodyMin: intPtr(55), CustodyMax: intPtr(70)}

	assert.True(t, f.Matches(hidden, now))
	assert.Empty(t, Apply([]*domain.Profile{hidden}, Viewer{UserID: uuid.New()}, f, now))
}
