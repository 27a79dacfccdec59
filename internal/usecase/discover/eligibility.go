package discover

import (
	"strings"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

// Viewer identifies who is browsing. ProfileID is uuid.Nil when the viewer has
// no profile row yet.
type Viewer struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
}

// IsEligible reports whether p may appear in viewer's browse results. The
// viewer's own profile is excluded both by owner identity and by row id, since
// either link can be missing.
func IsEligible(p *domain.Profile, viewer Viewer) bool {
	if p == nil || !p.IsVisible() || p.Gender != domain.GenderMale {
		return false
	}
	if viewer.UserID != uuid.Nil && p.OwnedBy(viewer.UserID) {
		return false
	}
	if viewer.ProfileID != uuid.Nil && p.ID == viewer.ProfileID {
		return false
	}
	return true
}

// Filters narrows the eligible set. Zero values disable a predicate; all
// active predicates must hold and ranges are inclusive.
type Filters struct {
	MinAge      *int
	MaxAge      *int
	Ethnicities []string
	Languages   []string
	LookingFor  string
	CustodyMin  *int
	CustodyMax  *int
}

const defaultCustody = 50

// CustodyPercentage maps a custody involvement label onto a coarse percentage.
func CustodyPercentage(label string) int {
	switch {
	case strings.Contains(label, "60/40"):
		return 60
	case strings.Contains(label, "40/60"):
		return 40
	case strings.Contains(label, "50/50"):
		return 50
	}
	return defaultCustody
}

// Matches applies every active predicate to p. A profile without a birth date
// fails any active age bound.
func (f Filters) Matches(p *domain.Profile, now time.Time) bool {
	if f.MinAge != nil || f.MaxAge != nil {
		age, ok := p.Age(now)
		if !ok {
			return false
		}
		if f.MinAge != nil && age < *f.MinAge {
			return false
		}
		if f.MaxAge != nil && age > *f.MaxAge {
			return false
		}
	}

	if len(f.Ethnicities) > 0 {
		if p.Ethnicity == nil || !containsFold(f.Ethnicities, *p.Ethnicity) {
			return false
		}
	}

	if len(f.Languages) > 0 {
		overlap := false
		for _, lang := range p.Languages {
			if containsFold(f.Languages, lang) {
				overlap = true
				break
			}
		}
		if !overlap {
			return false
		}
	}

	if needle := strings.TrimSpace(f.LookingFor); needle != "" {
		if p.LookingFor == nil || !strings.Contains(strings.ToLower(*p.LookingFor), strings.ToLower(needle)) {
			return false
		}
	}

	if f.CustodyMin != nil || f.CustodyMax != nil {
		label := ""
		if p.CustodyInvolvement != nil {
			label = *p.CustodyInvolvement
		}
		pct := CustodyPercentage(label)
		if f.CustodyMin != nil && pct < *f.CustodyMin {
			return false
		}
		if f.CustodyMax != nil && pct > *f.CustodyMax {
			return false
		}
	}
	return true
}

// Apply returns the profiles that are eligible for viewer and match f, in input order.
func Apply(profiles []*domain.Profile, viewer Viewer, f Filters, now time.Time) []*domain.Profile {
	out := make([]*domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if IsEligible(p, viewer) && f.Matches(p, now) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(set []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
