package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type conversationRepo struct {
	s *Store
}

func (r *conversationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return cloneConversation(c), nil
}

func (r *conversationRepo) GetByParties(_ context.Context, a, b uuid.UUID) (*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.pairs[newPairKey(a, b)]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return cloneConversation(r.s.conversations[id]), nil
}

func (r *conversationRepo) CreateIfAbsent(_ context.Context, conv *domain.Conversation) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := newPairKey(conv.UserID, conv.CandidateID)
	if id, ok := r.s.pairs[key]; ok {
		*conv = *cloneConversation(r.s.conversations[id])
		return false, nil
	}

	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	r.s.conversations[conv.ID] = cloneConversation(conv)
	r.s.pairs[key] = conv.ID
	return true, nil
}

func (r *conversationRepo) ListForParticipant(_ context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Conversation, 0)
	for _, c := range r.s.conversations {
		if c.HasParty(userID) {
			out = append(out, cloneConversation(c))
		}
	}
	// map iteration is random; make ties deterministic before the recency sort
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	domain.SortConversations(out)
	return out, nil
}

func (r *conversationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ConversationStatus, at time.Time) (*domain.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	c.Status = status
	c.UpdatedAt = at
	return cloneConversation(c), nil
}
