package conversation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store   *memory.Store
	tracker *Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tracker := NewTracker(store.Conversations(), store.Messages(), store.Topics(), store.Profiles(), nil,
		WithClock(newStepClock().Now))
	return &fixture{store: store, tracker: tracker}
}

// user creates an identity with a linked profile.
func (f *fixture) user(name string) uuid.UUID {
	id := uuid.New()
	f.store.PutProfile(&domain.Profile{
		UserID:      &id,
		DisplayName: name,
		Gender:      domain.GenderMale,
		IsPublic:    true,
		IsActive:    true,
	})
	return id
}

func (f *fixture) conversation(t *testing.T, seeker, candidate uuid.UUID) *domain.ConversationDetail {
	t.Helper()
	detail, _, err := f.tracker.GetOrCreate(context.Background(), seeker, candidate)
	require.NoError(t, err)
	return detail
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("seeker"), f.user("candidate")

	first, created, err := f.tracker.GetOrCreate(ctx, u1, u2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.StatusActive, first.Status)
	assert.Equal(t, "candidate", first.Counterpart.DisplayName)
	assert.Empty(t, first.Messages)
	assert.Empty(t, first.Topics)

	second, created, err := f.tracker.GetOrCreate(ctx, u1, u2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.store.ConversationCount())
}

func TestGetOrCreate_ReverseOrientationReusesConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("a"), f.user("b")

	first, _, err := f.tracker.GetOrCreate(ctx, u1, u2)
	require.NoError(t, err)

	reverse, created, err := f.tracker.GetOrCreate(ctx, u2, u1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, reverse.ID)
	assert.Equal(t, u1, reverse.UserID)
	assert.Equal(t, "a", reverse.Counterpart.DisplayName)
	assert.Equal(t, 1, f.store.ConversationCount())
}

func TestGetOrCreate_ConcurrentCallsConverge(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user("a"), f.user("b")

	const workers = 16
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			detail, _, err := f.tracker.GetOrCreate(context.Background(), u1, u2)
			if assert.NoError(t, err) {
				ids[i] = detail.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, f.store.ConversationCount())
}

func TestGetOrCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user("a")

	tests := []struct {
		name      string
		current   uuid.UUID
		candidate uuid.UUID
		want      error
	}{
		{"no identity", uuid.Nil, u1, domain.ErrUnauthenticated},
		{"self", u1, u1, domain.ErrValidation},
		{"missing candidate", u1, uuid.Nil, domain.ErrValidation},
		{"unknown candidate", u1, uuid.New(), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, created, err := f.tracker.GetOrCreate(ctx, tt.current, tt.candidate)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, created)
		})
	}
	assert.Equal(t, 0, f.store.ConversationCount())
}

func TestSendMessage_NonPartyDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user("a"), f.user("b"), f.user("c")
	conv := f.conversation(t, u1, u2)

	_, err := f.tracker.SendMessage(ctx, conv.ID, u3, "hello")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, 0, f.store.MessageCount(conv.ID))
}

func TestSendMessage_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("a"), f.user("b")
	conv := f.conversation(t, u1, u2)

	_, err := f.tracker.SendMessage(ctx, conv.ID, u1, "   \n\t ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.SendMessage(ctx, conv.ID, u1, strings.Repeat("x", domain.MaxMessageLength+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.SendMessage(ctx, uuid.New(), u1, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tracker.SendMessage(ctx, conv.ID, uuid.Nil, "hi")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.Equal(t, 0, f.store.MessageCount(conv.ID))
}

func TestSendMessage_TrimsAndBumpsLastMessageAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("a"), f.user("b")
	conv := f.conversation(t, u1, u2)
	assert.Nil(t, conv.LastMessageAt)

	msg, err := f.tracker.SendMessage(ctx, conv.ID, u2, "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Body)
	assert.Equal(t, u2, msg.SenderID)

	got, err := f.tracker.Get(ctx, conv.ID, u1)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageAt)
	assert.True(t, got.LastMessageAt.Equal(msg.CreatedAt))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "b", got.Counterpart.DisplayName)
}

func TestListMessages_AscendingAndSince(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("a"), f.user("b")
	conv := f.conversation(t, u1, u2)

	var sent []*domain.Message
	for i, sender := range []uuid.UUID{u1, u2, u1, u2} {
		msg, err := f.tracker.SendMessage(ctx, conv.ID, sender, strings.Repeat("m", i+1))
		require.NoError(t, err)
		sent = append(sent, msg)
	}

	all, err := f.tracker.ListMessages(ctx, conv.ID, u2, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.Before(all[i-1].CreatedAt))
	}

	since := sent[1].CreatedAt
	newer, err := f.tracker.ListMessages(ctx, conv.ID, u1, &since)
	require.NoError(t, err)
	require.Len(t, newer, 2)
	assert.Equal(t, sent[2].ID, newer[0].ID)
	assert.Equal(t, sent[3].ID, newer[1].ID)

	_, err = f.tracker.ListMessages(ctx, conv.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestUpdateStatus_CounterpartAllowedOutsiderDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user("a"), f.user("b"), f.user("c")
	conv := f.conversation(t, u1, u2)

	updated, err := f.tracker.UpdateStatus(ctx, conv.ID, u2, domain.StatusInterested)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterested, updated.Status)

	_, err = f.tracker.UpdateStatus(ctx, conv.ID, u3, domain.StatusDeclined)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	got, err := f.tracker.Get(ctx, conv.ID, u1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterested, got.Status)
}

func TestUpdateStatus_FreeTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user("a"), f.user("b")
	conv := f.conversation(t, u1, u2)

	for _, s := range []domain.ConversationStatus{
		domain.StatusArchived, domain.StatusActive, domain.StatusDeclined, domain.StatusInterested, domain.StatusArchived,
	} {
		updated, err := f.tracker.UpdateStatus(ctx, conv.ID, u1, s)
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)
	}

	_, err := f.tracker.UpdateStatus(ctx, conv.ID, u1, "pending")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetTopicCoverage_StatusSteps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker, candidate := f.user("a"), f.user("b")
	conv := f.conversation(t, seeker, candidate)

	row, err := f.tracker.SetTopicCoverage(ctx, conv.ID, seeker, domain.TopicCustody, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TopicPartial, row.Status())

	row, err = f.tracker.SetTopicCoverage(ctx, conv.ID, candidate, domain.TopicCustody, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TopicCovered, row.Status())
	assert.True(t, row.SeekerCovered)

	row, err = f.tracker.SetTopicCoverage(ctx, conv.ID, seeker, domain.TopicCustody, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TopicPartial, row.Status())
	assert.False(t, row.SeekerCovered)
	assert.True(t, row.CandidateCovered)
}

func TestSetTopicCoverage_CreatesMissingRowForCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker, candidate := f.user("a"), f.user("b")
	conv := f.conversation(t, seeker, candidate)

	rows, err := f.tracker.GetTopics(ctx, conv.ID, seeker)
	require.NoError(t, err)
	assert.Empty(t, rows)

	row, err := f.tracker.SetTopicCoverage(ctx, conv.ID, candidate, domain.TopicFinancial, true)
	require.NoError(t, err)
	assert.True(t, row.CandidateCovered)
	assert.False(t, row.SeekerCovered)
	assert.Equal(t, domain.TopicPartial, row.Status())

	rows, err = f.tracker.GetTopics(ctx, conv.ID, seeker)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TopicFinancial, rows[0].TopicID)
}

func TestSetTopicCoverage_FailureOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker, candidate, outsider := f.user("a"), f.user("b"), f.user("c")
	conv := f.conversation(t, seeker, candidate)

	_, err := f.tracker.SetTopicCoverage(ctx, uuid.New(), outsider, "bogus", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tracker.SetTopicCoverage(ctx, conv.ID, outsider, "bogus", true)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.tracker.SetTopicCoverage(ctx, conv.ID, seeker, "bogus", true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.GetTopics(ctx, conv.ID, outsider)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestSeedTopics_KeepsExistingRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker, candidate := f.user("a"), f.user("b")
	conv := f.conversation(t, seeker, candidate)

	_, err := f.tracker.SetTopicCoverage(ctx, conv.ID, seeker, domain.TopicLegal, true)
	require.NoError(t, err)

	rows, err := f.tracker.SeedTopics(ctx, conv.ID, candidate)
	require.NoError(t, err)
	require.Len(t, rows, len(domain.Topics()))

	for _, r := range rows {
		if r.TopicID == domain.TopicLegal {
			assert.True(t, r.SeekerCovered)
			continue
		}
		assert.Equal(t, domain.TopicNone, r.Status())
	}

	again, err := f.tracker.SeedTopics(ctx, conv.ID, seeker)
	require.NoError(t, err)
	assert.Len(t, again, len(domain.Topics()))
}

func TestListForUser_OrderAndJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me, a, b, c := f.user("me"), f.user("a"), f.user("b"), f.user("c")

	convA := f.conversation(t, me, a)
	convB := f.conversation(t, b, me)
	convC := f.conversation(t, me, c)
	f.conversation(t, a, b)

	_, err := f.tracker.SendMessage(ctx, convA.ID, a, "first")
	require.NoError(t, err)
	_, err = f.tracker.SendMessage(ctx, convB.ID, me, "second")
	require.NoError(t, err)
	_, err = f.tracker.SetTopicCoverage(ctx, convB.ID, me, domain.TopicLiving, true)
	require.NoError(t, err)

	list, err := f.tracker.ListForUser(ctx, me)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// most recent message first, then the conversation without messages
	assert.Equal(t, convB.ID, list[0].ID)
	assert.Equal(t, convA.ID, list[1].ID)
	assert.Equal(t, convC.ID, list[2].ID)
	assert.Nil(t, list[2].LastMessageAt)

	assert.Equal(t, "b", list[0].Counterpart.DisplayName)
	assert.Equal(t, "a", list[1].Counterpart.DisplayName)
	require.Len(t, list[0].Messages, 1)
	require.Len(t, list[0].Topics, 1)
	assert.Equal(t, domain.RoleCandidate, mustRole(t, list[0].Conversation, me))
	assert.Empty(t, list[2].Messages)
	assert.NotNil(t, list[2].Topics)
}

func TestListForUser_NullsLastByCreatedAt(t *testing.T) {
	f := newFixture(t)
	me, a, b := f.user("me"), f.user("a"), f.user("b")

	older := f.conversation(t, me, a)
	newer := f.conversation(t, me, b)

	list, err := f.tracker.ListForUser(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	_, err = f.tracker.ListForUser(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func mustRole(t *testing.T, c *domain.Conversation, userID uuid.UUID) domain.PartyRole {
	t.Helper()
	role, ok := c.RoleOf(userID)
	require.True(t, ok)
	return role
}

func TestGetOrCreate_HiddenCandidateNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker := f.user("seeker")

	for name, p := range map[string]*domain.Profile{
		"private":  {DisplayName: "private", Gender: domain.GenderMale, IsActive: true},
		"inactive": {DisplayName: "inactive", Gender: domain.GenderMale, IsPublic: true},
	} {
		t.Run(name, func(t *testing.T) {
			id := uuid.New()
			p.UserID = &id
			f.store.PutProfile(p)

			detail, created, err := f.tracker.GetOrCreate(ctx, seeker, id)
			assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
			assert.False(t, created)
			assert.Nil(t, detail)
		})
	}
	assert.Equal(t, 0, f.store.ConversationCount())
}

func TestSendMessage_TimestampMatchesStoredPrecision(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	tracker := NewTracker(store.Conversations(), store.Messages(), store.Topics(), store.Profiles(), nil,
		WithClock(func() time.Time { return base }))
	f := &fixture{store: store, tracker: tracker}
	ctx := context.Background()
	seeker, candidate := f.user("seeker"), f.user("candidate")
	conv := f.conversation(t, seeker, candidate)

	msg, err := tracker.SendMessage(ctx, conv.ID, seeker, "hello")
	require.NoError(t, err)
	assert.Equal(t, base.Truncate(time.Microsecond), msg.CreatedAt)

	since := msg.CreatedAt
	after, err := tracker.ListMessages(ctx, conv.ID, candidate, &since)
	require.NoError(t, err)
	assert.Empty(t, after)
}
