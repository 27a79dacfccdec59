// Package memory is an in-process persistence gateway. It backs STORAGE_TYPE=memory
// for local development and stands in for PostgreSQL in tests.
package memory

import (
	"sync"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
)

type topicKey struct {
	conversationID uuid.UUID
	topicID        domain.TopicID
}

type pairKey struct {
	low, high uuid.UUID
}

func newPairKey(a, b uuid.UUID) pairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

type shortlistKey struct {
	userID, candidateID uuid.UUID
}

type roleKey struct {
	userID uuid.UUID
	role   string
}

// Store holds every table. All access goes through mu.
type Store struct {
	mu sync.RWMutex

	profiles      map[uuid.UUID]*domain.Profile
	profileOrder  []uuid.UUID
	conversations map[uuid.UUID]*domain.Conversation
	pairs         map[pairKey]uuid.UUID
	messages      map[uuid.UUID][]*domain.Message
	topics        map[topicKey]*domain.ConversationTopic
	shortlist     map[shortlistKey]*domain.ShortlistEntry
	roles         map[roleKey]struct{}

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		profiles:      make(map[uuid.UUID]*domain.Profile),
		conversations: make(map[uuid.UUID]*domain.Conversation),
		pairs:         make(map[pairKey]uuid.UUID),
		messages:      make(map[uuid.UUID][]*domain.Message),
		topics:        make(map[topicKey]*domain.ConversationTopic),
		shortlist:     make(map[shortlistKey]*domain.ShortlistEntry),
		roles:         make(map[roleKey]struct{}),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// PutProfile inserts or replaces a profile row.
func (s *Store) PutProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if _, ok := s.profiles[p.ID]; !ok {
		s.profileOrder = append(s.profileOrder, p.ID)
	}
	s.profiles[p.ID] = cloneProfile(p)
}

// ConversationCount returns the number of stored conversations.
func (s *Store) ConversationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// MessageCount returns the number of messages stored for a conversation.
func (s *Store) MessageCount(conversationID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[conversationID])
}

func (s *Store) Profiles() repository.ProfileRepository           { return &profileRepo{s: s} }
func (s *Store) Conversations() repository.ConversationRepository { return &conversationRepo{s: s} }
func (s *Store) Messages() repository.MessageRepository           { return &messageRepo{s: s} }
func (s *Store) Topics() repository.TopicRepository               { return &topicRepo{s: s} }
func (s *Store) Shortlist() repository.ShortlistRepository        { return &shortlistRepo{s: s} }
func (s *Store) Roles() repository.RoleRepository                 { return &roleRepo{s: s} }

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	if p.Languages != nil {
		c.Languages = append([]string(nil), p.Languages...)
	}
	return &c
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	out := *c
	if c.LastMessageAt != nil {
		t := *c.LastMessageAt
		out.LastMessageAt = &t
	}
	return &out
}

func cloneMessage(m *domain.Message) *domain.Message {
	out := *m
	return &out
}

func cloneTopic(t *domain.ConversationTopic) *domain.ConversationTopic {
	out := *t
	return &out
}
