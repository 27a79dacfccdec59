package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type shortlistRepo struct {
	s *Store
}

func (r *shortlistRepo) Add(_ context.Context, entry *domain.ShortlistEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[entry.CandidateID]; !ok {
		return domain.ErrCandidateNotFound
	}
	key := shortlistKey{userID: entry.UserID, candidateID: entry.CandidateID}
	if _, ok := r.s.shortlist[key]; ok {
		return domain.ErrAlreadyShortlisted
	}
	stored := *entry
	r.s.shortlist[key] = &stored
	return nil
}

func (r *shortlistRepo) Remove(_ context.Context, userID, candidateID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := shortlistKey{userID: userID, candidateID: candidateID}
	if _, ok := r.s.shortlist[key]; !ok {
		return domain.ErrShortlistEntryNotFound
	}
	delete(r.s.shortlist, key)
	return nil
}

func (r *shortlistRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.ShortlistEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.ShortlistEntry, 0)
	for key, e := range r.s.shortlist {
		if key.userID == userID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CandidateID.String() < out[j].CandidateID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type roleRepo struct {
	s *Store
}

func (r *roleRepo) HasRole(_ context.Context, userID uuid.UUID, role string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.roles[roleKey{userID: userID, role: role}]
	return ok, nil
}

func (r *roleRepo) Grant(_ context.Context, userID uuid.UUID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roles[roleKey{userID: userID, role: role}] = struct{}{}
	return nil
}

func (r *roleRepo) Revoke(_ context.Context, userID uuid.UUID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.roles, roleKey{userID: userID, role: role})
	return nil
}
