package repository_test

import (
	"context"
	"testing"

	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCanonicalPair(t *testing.T) {
	a, b := repository.CanonicalPair("zoe", "adam")
	assert.Equal(t, "adam", a)
	assert.Equal(t, "zoe", b)

	a, b = repository.CanonicalPair("adam", "zoe")
	assert.Equal(t, "adam", a)
	assert.Equal(t, "zoe", b)
}

// TestEnsureMatchWithChatConverges verifies that creating the same pair
// twice, in either order, yields one match row and one chat with stable ids.
func TestEnsureMatchWithChatConverges(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	m1, c1, created1, err := repo.EnsureMatchWithChat(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, created1)

	// reversed order converges on the same rows
	m2, c2, created2, err := repo.EnsureMatchWithChat(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, m1.ID, m2.ID)
	assert.Equal(t, c1.ID, c2.ID)

	var matches []db.Match
	require.NoError(t, dbase.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].UserA)
	assert.Equal(t, "u2", matches[0].UserB)

	var chats []db.Chat
	require.NoError(t, dbase.Find(&chats).Error)
	require.Len(t, chats, 1)
}

func seedProfiles(t *testing.T, dbase *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, dbase.Create(&db.Profile{
			ID:           id,
			Email:        id + "@test.com",
			Name:         id,
			Age:          21,
			Gender:       db.GenderMen,
			Frat:         "none",
			HeightCM:     180,
			InterestedIn: db.InterestEveryone,
			DatingPool:   "abc123",
		}).Error)
	}
}

func TestConfirmDateFinalizesOnSecondConfirmation(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	seedProfiles(t, dbase, "u1", "u2")
	m, _, _, err := repo.EnsureMatchWithChat(ctx, "u1", "u2")
	require.NoError(t, err)

	both, err := repo.ConfirmDate(ctx, m, "u1")
	require.NoError(t, err)
	assert.False(t, both)

	both, err = repo.ConfirmDate(ctx, m, "u2")
	require.NoError(t, err)
	assert.True(t, both)

	// both profiles are retired from the pool
	var profiles []db.Profile
	require.NoError(t, dbase.Find(&profiles).Error)
	for _, p := range profiles {
		assert.True(t, p.IsFinalized, "profile %s", p.ID)
	}
}

func TestConfirmDateRejectsRepeatAndElsewhere(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	seedProfiles(t, dbase, "u1", "u2", "u3")
	m1, _, _, err := repo.EnsureMatchWithChat(ctx, "u1", "u2")
	require.NoError(t, err)
	m2, _, _, err := repo.EnsureMatchWithChat(ctx, "u1", "u3")
	require.NoError(t, err)

	_, err = repo.ConfirmDate(ctx, m1, "u1")
	require.NoError(t, err)

	// same match again
	_, err = repo.ConfirmDate(ctx, m1, "u1")
	assert.ErrorIs(t, err, apperr.ErrAlreadyConfirmed)

	// a different match for the same user
	_, err = repo.ConfirmDate(ctx, m2, "u1")
	assert.ErrorIs(t, err, apperr.ErrAlreadyConfirmedElsewhere)

	// the rejected calls left no rows behind
	var confs []db.DateConfirmation
	require.NoError(t, dbase.Find(&confs).Error)
	require.Len(t, confs, 1)
	assert.Equal(t, m1.ID, confs[0].MatchID)
}

// TestConfirmDateReloadsMatchRow: the transaction trusts only its own
// locking re-read of the match, not the row the caller loaded earlier.
func TestConfirmDateReloadsMatchRow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	seedProfiles(t, dbase, "u1", "u2")
	m, _, _, err := repo.EnsureMatchWithChat(ctx, "u1", "u2")
	require.NoError(t, err)

	require.NoError(t, dbase.Where("id = ?", m.ID).Delete(&db.Match{}).Error)

	_, err = repo.ConfirmDate(ctx, m, "u1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var confs []db.DateConfirmation
	require.NoError(t, dbase.Find(&confs).Error)
	assert.Empty(t, confs)
}

func TestAnyConfirmationFor(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	seedProfiles(t, dbase, "u1", "u2")
	m, _, _, err := repo.EnsureMatchWithChat(ctx, "u1", "u2")
	require.NoError(t, err)

	conf, err := repo.AnyConfirmationFor(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, conf)

	_, err = repo.ConfirmDate(ctx, m, "u1")
	require.NoError(t, err)

	conf, err = repo.AnyConfirmationFor(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Equal(t, m.ID, conf.MatchID)
}
