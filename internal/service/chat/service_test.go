package chat_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/cache"
	"github.com/pfcmatch/backend/internal/config"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
	"github.com/pfcmatch/backend/internal/service/chat"
)

func setupService(t *testing.T) (*chat.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(cfg, dbase, redisCache, nil, nil, nil, logger)
	return chat.NewService(appCtx), appCtx
}

// seedChat creates both profiles, their match and its chat, returning the
// match and chat.
func seedChat(t *testing.T, appCtx *app.AppContext, x, y string) (*db.Match, *db.Chat) {
	t.Helper()
	for _, id := range []string{x, y} {
		var existing db.Profile
		if err := appCtx.DB.First(&existing, "id = ?", id).Error; err == nil {
			continue
		}
		require.NoError(t, appCtx.DB.Create(&db.Profile{
			ID: id, Email: id + "@test.com", Name: "Name-" + id, Age: 21,
			Gender: db.GenderMen, HeightCM: 180,
			InterestedIn: db.InterestEveryone, DatingPool: "abc123",
		}).Error)
	}
	m, c, _, err := repository.NewMatchRepository(appCtx.DB).EnsureMatchWithChat(context.Background(), x, y)
	require.NoError(t, err)
	return m, c
}

func TestSendAndGetMessages(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	_, c := seedChat(t, appCtx, "u1", "u2")

	msg, err := svc.SendMessage(ctx, "u1", c.ID, "  hey there  ")
	require.NoError(t, err)
	assert.Equal(t, "hey there", msg.Body)
	assert.Equal(t, "u1", msg.Sender)

	_, err = svc.SendMessage(ctx, "u2", c.ID, "hi!")
	require.NoError(t, err)

	messages, next, err := svc.GetMessages(ctx, "u1", c.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Nil(t, next)
	assert.Equal(t, "hey there", messages[0].Body)
	assert.Equal(t, "hi!", messages[1].Body)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	_, c := seedChat(t, appCtx, "u1", "u2")

	_, err := svc.SendMessage(ctx, "u1", c.ID, "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.SendMessage(ctx, "u1", "missing", "hello")
	assert.ErrorIs(t, err, apperr.ErrChatNotFound)

	_, err = svc.SendMessage(ctx, "stranger", c.ID, "hello")
	assert.ErrorIs(t, err, apperr.ErrNotMatchMember)
}

// TestSendMessageExpiredChat: once a member commits to a different match,
// the chat locks for both.
func TestSendMessageExpiredChat(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	_, c12 := seedChat(t, appCtx, "u1", "u2")
	m13, _ := seedChat(t, appCtx, "u1", "u3")

	_, err := svc.SendMessage(ctx, "u1", c12.ID, "still here")
	require.NoError(t, err)

	// u1 commits to the other match
	matchRepo := repository.NewMatchRepository(appCtx.DB)
	_, err = matchRepo.ConfirmDate(ctx, m13, "u1")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, "u1", c12.ID, "one more")
	assert.ErrorIs(t, err, apperr.ErrChatExpired)

	_, err = svc.SendMessage(ctx, "u2", c12.ID, "hello?")
	assert.ErrorIs(t, err, apperr.ErrChatExpired)

	// reading history still works
	messages, _, err := svc.GetMessages(ctx, "u2", c12.ID, nil, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestGetMessagesPagination(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	_, c := seedChat(t, appCtx, "u1", "u2")

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, appCtx.DB.Create(&db.Message{
			ID:        fmt.Sprintf("msg-%d", i),
			ChatID:    c.ID,
			Sender:    "u1",
			Body:      fmt.Sprintf("m%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}).Error)
	}

	page1, next, err := svc.GetMessages(ctx, "u1", c.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)

	page2, next, err := svc.GetMessages(ctx, "u1", c.ID, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "m2", page2[0].Body)
	assert.Nil(t, next)
}

func TestGetInfo(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	m, c := seedChat(t, appCtx, "u1", "u2")

	info, err := svc.GetInfo(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, info.MatchID)
	assert.False(t, info.UserConfirmed)
	assert.False(t, info.OtherConfirmed)
	assert.False(t, info.BothConfirmed)
	assert.False(t, info.IsExpired)
	require.NotNil(t, info.OtherProfile)
	assert.Equal(t, "u2", info.OtherProfile.ID)

	matchRepo := repository.NewMatchRepository(appCtx.DB)
	_, err = matchRepo.ConfirmDate(ctx, m, "u2")
	require.NoError(t, err)

	info, err = svc.GetInfo(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.False(t, info.UserConfirmed)
	assert.True(t, info.OtherConfirmed)
	assert.False(t, info.BothConfirmed)
	assert.False(t, info.IsExpired)

	_, err = matchRepo.ConfirmDate(ctx, m, "u1")
	require.NoError(t, err)

	info, err = svc.GetInfo(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.True(t, info.BothConfirmed)
	assert.False(t, info.IsExpired)
}
