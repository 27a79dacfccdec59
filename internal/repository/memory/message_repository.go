package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/uuid"
)

type messageRepo struct {
	s *Store
}

func (r *messageRepo) Append(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.conversations[msg.ConversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	r.s.messages[msg.ConversationID] = append(r.s.messages[msg.ConversationID], cloneMessage(msg))

	if c.LastMessageAt == nil || msg.CreatedAt.After(*c.LastMessageAt) {
		at := msg.CreatedAt
		c.LastMessageAt = &at
	}
	c.UpdatedAt = msg.CreatedAt
	return nil
}

func (r *messageRepo) ListByConversation(_ context.Context, conversationID uuid.UUID, since *time.Time) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Message, 0)
	for _, m := range r.s.messages[conversationID] {
		if since != nil && !m.CreatedAt.After(*since) {
			continue
		}
		out = append(out, cloneMessage(m))
	}
	domain.SortMessages(out)
	return out, nil
}

func (r *messageRepo) ListByConversations(_ context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	grouped := make(map[uuid.UUID][]*domain.Message, len(conversationIDs))
	for _, id := range conversationIDs {
		for _, m := range r.s.messages[id] {
			grouped[id] = append(grouped[id], cloneMessage(m))
		}
		domain.SortMessages(grouped[id])
	}
	return grouped, nil
}
