package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/database"
	"github.com/gdugdh24/coparent-backend/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_DSN and applies the migrations.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateUp(db))
	return db
}

func insertProfile(t *testing.T, db *sqlx.DB, userID *uuid.UUID, name string) *domain.Profile {
	t.Helper()
	p := &domain.Profile{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: name,
		Gender:      domain.GenderMale,
		IsPublic:    true,
		IsActive:    true,
	}
	_, err := db.NamedExec(`
		INSERT INTO profiles (id, user_id, display_name, gender, languages, is_public, is_active)
		VALUES (:id, :user_id, :display_name, :gender, '{}', :is_public, :is_active)`, p)
	require.NoError(t, err)
	return p
}

func TestConversationRepository_CreateIfAbsentConverges(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewConversationRepository(db)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			now := time.Now().UTC()
			conv := &domain.Conversation{ID: uuid.New(), UserID: a, CandidateID: b, Status: domain.StatusActive, CreatedAt: now, UpdatedAt: now}
			if i%2 == 1 {
				conv.UserID, conv.CandidateID = b, a
			}
			_, err := repo.CreateIfAbsent(ctx, conv)
			assert.NoError(t, err)
			ids[i] = conv.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	got, err := repo.GetByParties(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, ids[0], got.ID)
}

func TestMessageRepository_AppendBumpsConversation(t *testing.T) {
	db := openTestDB(t)
	conversations := postgres.NewConversationRepository(db)
	messages := postgres.NewMessageRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	conv := &domain.Conversation{ID: uuid.New(), UserID: uuid.New(), CandidateID: uuid.New(), Status: domain.StatusActive, CreatedAt: now, UpdatedAt: now}
	created, err := conversations.CreateIfAbsent(ctx, conv)
	require.NoError(t, err)
	require.True(t, created)

	msg := &domain.Message{ID: uuid.New(), ConversationID: conv.ID, SenderID: conv.UserID, Body: "hello", CreatedAt: now.Add(time.Second)}
	require.NoError(t, messages.Append(ctx, msg))

	stored, err := conversations.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessageAt)
	assert.True(t, stored.LastMessageAt.Equal(msg.CreatedAt))

	list, err := messages.ListByConversation(ctx, conv.ID, &msg.CreatedAt)
	require.NoError(t, err)
	assert.Empty(t, list)

	orphan := &domain.Message{ID: uuid.New(), ConversationID: uuid.New(), SenderID: conv.UserID, Body: "x", CreatedAt: now}
	assert.ErrorIs(t, messages.Append(ctx, orphan), domain.ErrConversationNotFound)
}

func TestTopicRepository_SetCoverageWritesOwnColumn(t *testing.T) {
	db := openTestDB(t)
	conversations := postgres.NewConversationRepository(db)
	topics := postgres.NewTopicRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	conv := &domain.Conversation{ID: uuid.New(), UserID: uuid.New(), CandidateID: uuid.New(), Status: domain.StatusActive, CreatedAt: now, UpdatedAt: now}
	_, err := conversations.CreateIfAbsent(ctx, conv)
	require.NoError(t, err)

	row, err := topics.SetCoverage(ctx, conv.ID, domain.TopicLegal, domain.RoleCandidate, true, now)
	require.NoError(t, err)
	assert.False(t, row.SeekerCovered)
	assert.True(t, row.CandidateCovered)

	row, err = topics.SetCoverage(ctx, conv.ID, domain.TopicLegal, domain.RoleSeeker, true, now)
	require.NoError(t, err)
	assert.Equal(t, domain.TopicCovered, row.Status())

	require.NoError(t, topics.Seed(ctx, conv.ID, []domain.TopicID{domain.TopicLegal, domain.TopicLiving}, now))
	rows, err := topics.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		if r.TopicID == domain.TopicLegal {
			assert.True(t, r.SeekerCovered && r.CandidateCovered)
		}
	}
}

func TestShortlistAndRoles(t *testing.T) {
	db := openTestDB(t)
	shortlist := postgres.NewShortlistRepository(db)
	roles := postgres.NewRoleRepository(db)
	ctx := context.Background()

	candidate := insertProfile(t, db, nil, "candidate")
	userID := uuid.New()

	entry := &domain.ShortlistEntry{UserID: userID, CandidateID: candidate.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, shortlist.Add(ctx, entry))
	assert.ErrorIs(t, shortlist.Add(ctx, entry), domain.ErrAlreadyShortlisted)

	missing := &domain.ShortlistEntry{UserID: userID, CandidateID: uuid.New(), CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, shortlist.Add(ctx, missing), domain.ErrCandidateNotFound)

	require.NoError(t, shortlist.Remove(ctx, userID, candidate.ID))
	assert.ErrorIs(t, shortlist.Remove(ctx, userID, candidate.ID), domain.ErrShortlistEntryNotFound)

	require.NoError(t, roles.Grant(ctx, userID, domain.RoleAdmin))
	require.NoError(t, roles.Grant(ctx, userID, domain.RoleAdmin))
	ok, err := roles.HasRole(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, roles.Revoke(ctx, userID, domain.RoleAdmin))
	ok, err = roles.HasRole(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileRepository_Discoverable(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	own := insertProfile(t, db, &owner, "own")
	other := insertProfile(t, db, nil, "other")

	list, err := repo.ListDiscoverable(ctx, owner)
	require.NoError(t, err)
	ids := make(map[uuid.UUID]bool, len(list))
	for _, p := range list {
		ids[p.ID] = true
	}
	assert.False(t, ids[own.ID])
	assert.True(t, ids[other.ID])

	hidden, err := repo.SetVisibility(ctx, other.ID, false, true)
	require.NoError(t, err)
	assert.False(t, hidden.IsPublic)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_Create(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	p := &domain.Profile{UserID: &userID, DisplayName: "new", Gender: domain.GenderMale, IsActive: true}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Empty(t, got.Languages)

	dup := &domain.Profile{UserID: &userID, DisplayName: "dup", Gender: domain.GenderMale}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrProfileAlreadyExists)
}
