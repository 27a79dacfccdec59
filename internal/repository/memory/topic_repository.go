package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type topicRepo struct {
	s *Store
}

func (r *topicRepo) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]*domain.ConversationTopic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.topicsFor(conversationID), nil
}

func (r *topicRepo) ListByConversations(_ context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.ConversationTopic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	grouped := make(map[uuid.UUID][]*domain.ConversationTopic, len(conversationIDs))
	for _, id := range conversationIDs {
		if rows := r.s.topicsFor(id); len(rows) > 0 {
			grouped[id] = rows
		}
	}
	return grouped, nil
}

func (r *topicRepo) SetCoverage(_ context.Context, conversationID uuid.UUID, topicID domain.TopicID, role domain.PartyRole, covered bool, at time.Time) (*domain.ConversationTopic, error) {
	if role != domain.RoleSeeker && role != domain.RoleCandidate {
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown party role %q", role))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.conversations[conversationID]; !ok {
		return nil, domain.ErrConversationNotFound
	}
	key := topicKey{conversationID: conversationID, topicID: topicID}
	row, ok := r.s.topics[key]
	if !ok {
		row = &domain.ConversationTopic{ConversationID: conversationID, TopicID: topicID}
		r.s.topics[key] = row
	}
	row.Set(role, covered)
	row.UpdatedAt = at
	return cloneTopic(row), nil
}

func (r *topicRepo) Seed(_ context.Context, conversationID uuid.UUID, topicIDs []domain.TopicID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.conversations[conversationID]; !ok {
		return domain.ErrConversationNotFound
	}
	for _, id := range topicIDs {
		key := topicKey{conversationID: conversationID, topicID: id}
		if _, ok := r.s.topics[key]; ok {
			continue
		}
		r.s.topics[key] = &domain.ConversationTopic{ConversationID: conversationID, TopicID: id, UpdatedAt: at}
	}
	return nil
}

// topicsFor must be called with mu held.
func (s *Store) topicsFor(conversationID uuid.UUID) []*domain.ConversationTopic {
	out := make([]*domain.ConversationTopic, 0)
	for key, row := range s.topics {
		if key.conversationID == conversationID {
			out = append(out, cloneTopic(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicID < out[j].TopicID })
	return out
}
