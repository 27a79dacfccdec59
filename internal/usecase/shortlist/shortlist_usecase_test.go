package shortlist

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addCounter struct{ n int }

func (c *addCounter) ShortlistAdded() { c.n++ }

func newCandidate(store *memory.Store, name string) *domain.Profile {
	owner := uuid.New()
	p := &domain.Profile{UserID: &owner, DisplayName: name, Gender: domain.GenderMale, IsPublic: true, IsActive: true}
	store.PutProfile(p)
	return p
}

func TestAdd_DuplicateIsNoop(t *testing.T) {
	store := memory.NewStore()
	counter := &addCounter{}
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), counter)
	ctx := context.Background()
	user := uuid.New()
	c := newCandidate(store, "c")

	added, err := uc.Add(ctx, user, c.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = uc.Add(ctx, user, c.ID)
	require.NoError(t, err)
	assert.False(t, added)

	items, err := uc.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, counter.n)
}

func TestAdd_Rejections(t *testing.T) {
	store := memory.NewStore()
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), nil)
	ctx := context.Background()

	owner := uuid.New()
	own := &domain.Profile{UserID: &owner, DisplayName: "me", Gender: domain.GenderMale}
	store.PutProfile(own)

	_, err := uc.Add(ctx, owner, own.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Add(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Add(ctx, uuid.Nil, own.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRemove(t *testing.T) {
	store := memory.NewStore()
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), nil)
	ctx := context.Background()
	user := uuid.New()
	c := newCandidate(store, "c")

	_, err := uc.Add(ctx, user, c.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Remove(ctx, user, c.ID))
	assert.ErrorIs(t, uc.Remove(ctx, user, c.ID), domain.ErrNotFound)

	items, err := uc.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList_NewestFirstWithProfiles(t *testing.T) {
	store := memory.NewStore()
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), nil)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	ctx := context.Background()
	user := uuid.New()
	first, second := newCandidate(store, "first"), newCandidate(store, "second")

	_, err := uc.Add(ctx, user, first.ID)
	require.NoError(t, err)
	_, err = uc.Add(ctx, user, second.ID)
	require.NoError(t, err)

	// another user's entries stay separate
	_, err = uc.Add(ctx, uuid.New(), first.ID)
	require.NoError(t, err)

	items, err := uc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Profile.DisplayName)
	assert.Equal(t, "first", items[1].Profile.DisplayName)
}

func TestAdd_HiddenCandidateNotFound(t *testing.T) {
	store := memory.NewStore()
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), nil)
	ctx := context.Background()
	user := uuid.New()

	bio := "private bio"
	hidden := &domain.Profile{DisplayName: "hidden", Gender: domain.GenderMale, Bio: &bio, IsActive: true}
	store.PutProfile(hidden)

	added, err := uc.Add(ctx, user, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	assert.False(t, added)

	items, err := uc.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList_OmitsProfilesHiddenAfterAdding(t *testing.T) {
	store := memory.NewStore()
	uc := NewShortlistUseCase(store.Shortlist(), store.Profiles(), nil)
	ctx := context.Background()
	user := uuid.New()
	c := newCandidate(store, "later hidden")

	_, err := uc.Add(ctx, user, c.ID)
	require.NoError(t, err)
	_, err = store.Profiles().SetVisibility(ctx, c.ID, false, true)
	require.NoError(t, err)

	items, err := uc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, c.ID, items[0].CandidateID)
	assert.Nil(t, items[0].Profile)
}
