// Package conversation tracks two-party conversations: the message log, the
// status both parties can move freely, and per-topic coverage flags.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/google/uuid"
)

// Recorder receives domain events for metrics.
type Recorder interface {
	ConversationCreated()
	MessageSent()
	TopicUpdated(topic, role string)
}

type nopRecorder struct{}

func (nopRecorder) ConversationCreated()     {}
func (nopRecorder) MessageSent()             {}
func (nopRecorder) TopicUpdated(_, _ string) {}

type Tracker struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	topics        repository.TopicRepository
	profiles      repository.ProfileRepository
	metrics       Recorder
	logger        *slog.Logger
	now           func() time.Time
}

type Option func(*Tracker)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(t *Tracker) {
		if r != nil {
			t.metrics = r
		}
	}
}

func NewTracker(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	topics repository.TopicRepository,
	profiles repository.ProfileRepository,
	logger *slog.Logger,
	opts ...Option,
) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		conversations: conversations,
		messages:      messages,
		topics:        topics,
		profiles:      profiles,
		metrics:       nopRecorder{},
		logger:        logger.With("component", "conversation"),
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func requireIdentity(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// Authorize resolves the conversation and the side requesterID is on.
// Resolution failures come before access checks so callers can tell
// NotFound apart from AccessDenied.
func (t *Tracker) Authorize(ctx context.Context, conversationID, requesterID uuid.UUID) (*domain.Conversation, domain.PartyRole, error) {
	if err := requireIdentity(requesterID); err != nil {
		return nil, "", err
	}
	conv, err := t.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	role, ok := conv.RoleOf(requesterID)
	if !ok {
		return nil, "", domain.ErrAccessDenied
	}
	return conv, role, nil
}

// GetOrCreate returns the conversation between currentUserID and candidateID,
// creating it when the pair has none. created reports whether this call inserted it.
func (t *Tracker) GetOrCreate(ctx context.Context, currentUserID, candidateID uuid.UUID) (*domain.ConversationDetail, bool, error) {
	if err := requireIdentity(currentUserID); err != nil {
		return nil, false, err
	}
	if candidateID == uuid.Nil {
		return nil, false, domain.NewValidationError("candidate_id", "is required")
	}
	if candidateID == currentUserID {
		return nil, false, domain.NewValidationError("candidate_id", "cannot start a conversation with yourself")
	}

	counterpart, err := t.profiles.GetByUserID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrCandidateNotFound
		}
		return nil, false, fmt.Errorf("failed to resolve candidate: %w", err)
	}
	// hidden profiles cannot be contacted
	if !counterpart.IsVisible() {
		return nil, false, domain.ErrCandidateNotFound
	}

	existing, err := t.conversations.GetByParties(ctx, currentUserID, candidateID)
	switch {
	case err == nil:
		detail, err := t.detail(ctx, existing, counterpart)
		return detail, false, err
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up conversation: %w", err)
	}

	now := t.now()
	conv := &domain.Conversation{
		ID:          uuid.New(),
		UserID:      currentUserID,
		CandidateID: candidateID,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := t.conversations.CreateIfAbsent(ctx, conv)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}
	if created {
		t.metrics.ConversationCreated()
		t.logger.InfoContext(ctx, "conversation created",
			"conversation_id", conv.ID, "user_id", currentUserID, "candidate_id", candidateID)
	}

	detail, err := t.detail(ctx, conv, counterpart)
	return detail, created, err
}

// Get returns one conversation joined like GetOrCreate.
func (t *Tracker) Get(ctx context.Context, conversationID, requesterID uuid.UUID) (*domain.ConversationDetail, error) {
	conv, _, err := t.Authorize(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}
	counterpartID, _ := conv.CounterpartOf(requesterID)
	counterpart, err := t.profiles.GetByUserID(ctx, counterpartID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load counterpart: %w", err)
	}
	return t.detail(ctx, conv, counterpart)
}

func (t *Tracker) detail(ctx context.Context, conv *domain.Conversation, counterpart *domain.Profile) (*domain.ConversationDetail, error) {
	messages, err := t.messages.ListByConversation(ctx, conv.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	topics, err := t.topics.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	return &domain.ConversationDetail{
		Conversation: conv,
		Counterpart:  counterpart,
		Messages:     messages,
		Topics:       topics,
	}, nil
}

// ListForUser returns every conversation currentUserID is a party to, most
// recently active first.
func (t *Tracker) ListForUser(ctx context.Context, currentUserID uuid.UUID) ([]*domain.ConversationDetail, error) {
	if err := requireIdentity(currentUserID); err != nil {
		return nil, err
	}
	convs, err := t.conversations.ListForParticipant(ctx, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(convs) == 0 {
		return []*domain.ConversationDetail{}, nil
	}

	ids := make([]uuid.UUID, 0, len(convs))
	counterpartIDs := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
		other, _ := c.CounterpartOf(currentUserID)
		counterpartIDs = append(counterpartIDs, other)
	}

	messages, err := t.messages.ListByConversations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	topics, err := t.topics.ListByConversations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	profiles, err := t.profiles.GetByUserIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load counterparts: %w", err)
	}
	byUser := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		if p.UserID != nil {
			byUser[*p.UserID] = p
		}
	}

	details := make([]*domain.ConversationDetail, 0, len(convs))
	for _, c := range convs {
		other, _ := c.CounterpartOf(currentUserID)
		msgs := messages[c.ID]
		if msgs == nil {
			msgs = []*domain.Message{}
		}
		rows := topics[c.ID]
		if rows == nil {
			rows = []*domain.ConversationTopic{}
		}
		details = append(details, &domain.ConversationDetail{
			Conversation: c,
			Counterpart:  byUser[other],
			Messages:     msgs,
			Topics:       rows,
		})
	}
	domain.SortConversationDetails(details)
	return details, nil
}

// SendMessage appends a message from senderID. The body is stored trimmed.
func (t *Tracker) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, text string) (*domain.Message, error) {
	conv, _, err := t.Authorize(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(text)
	if body == "" {
		return nil, domain.NewValidationError("text", "must not be empty")
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageLength {
		return nil, domain.NewValidationError("text", fmt.Sprintf("must be at most %d characters", domain.MaxMessageLength))
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      t.now().Truncate(time.Microsecond), // postgres keeps microseconds
	}
	if err := t.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	t.metrics.MessageSent()
	t.logger.DebugContext(ctx, "message sent", "conversation_id", conv.ID, "message_id", msg.ID)
	return msg, nil
}

// ListMessages returns the message log in ascending order. When since is set
// only messages created strictly after it are returned.
func (t *Tracker) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, since *time.Time) ([]*domain.Message, error) {
	if _, _, err := t.Authorize(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	msgs, err := t.messages.ListByConversation(ctx, conversationID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// UpdateStatus moves the conversation to status. Every status is reachable
// from every other.
func (t *Tracker) UpdateStatus(ctx context.Context, conversationID, requesterID uuid.UUID, status domain.ConversationStatus) (*domain.Conversation, error) {
	if _, _, err := t.Authorize(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	conv, err := t.conversations.UpdateStatus(ctx, conversationID, status, t.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	t.logger.InfoContext(ctx, "conversation status changed",
		"conversation_id", conversationID, "status", status, "by", requesterID)
	return conv, nil
}

// GetTopics returns the stored coverage rows. Topics never written have no row.
func (t *Tracker) GetTopics(ctx context.Context, conversationID, requesterID uuid.UUID) ([]*domain.ConversationTopic, error) {
	if _, _, err := t.Authorize(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	rows, err := t.topics.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return rows, nil
}

// SetTopicCoverage writes the requester's own flag for topicID, creating the
// row on first write. The other party's flag is never touched.
func (t *Tracker) SetTopicCoverage(ctx context.Context, conversationID, requesterID uuid.UUID, topicID domain.TopicID, covered bool) (*domain.ConversationTopic, error) {
	_, role, err := t.Authorize(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}
	if _, ok := domain.LookupTopic(topicID); !ok {
		return nil, domain.NewValidationError("topic_id", fmt.Sprintf("unknown topic %q", topicID))
	}

	row, err := t.topics.SetCoverage(ctx, conversationID, topicID, role, covered, t.now())
	if err != nil {
		return nil, fmt.Errorf("failed to set topic coverage: %w", err)
	}
	t.metrics.TopicUpdated(string(topicID), string(role))
	return row, nil
}

// SeedTopics creates a row with both flags false for every catalog topic that
// has none yet.
func (t *Tracker) SeedTopics(ctx context.Context, conversationID, requesterID uuid.UUID) ([]*domain.ConversationTopic, error) {
	if _, _, err := t.Authorize(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	catalog := domain.Topics()
	ids := make([]domain.TopicID, 0, len(catalog))
	for _, topic := range catalog {
		ids = append(ids, topic.ID)
	}
	if err := t.topics.Seed(ctx, conversationID, ids, t.now()); err != nil {
		return nil, fmt.Errorf("failed to seed topics: %w", err)
	}
	return t.GetTopics(ctx, conversationID, requesterID)
}
