package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pfcmatch/backend/internal/db"
	"github.com/pfcmatch/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMessages(t *testing.T, dbase *gorm.DB, chatID string, n int) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := 0; i < n; i++ {
		require.NoError(t, dbase.Create(&db.Message{
			ID:        fmt.Sprintf("msg-%03d", i),
			ChatID:    chatID,
			Sender:    "u1",
			Body:      fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}).Error)
	}
}

func TestListMessagesFullHistory(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewChatRepository(dbase)

	seedMessages(t, dbase, "chat1", 5)

	// limit <= 0 → everything, oldest first, no token
	messages, next, err := repo.ListMessages(ctx, "chat1", nil, 0)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	assert.Nil(t, next)
	assert.Equal(t, "message 0", messages[0].Body)
	assert.Equal(t, "message 4", messages[4].Body)
}

func TestListMessagesPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewChatRepository(dbase)

	seedMessages(t, dbase, "chat1", 5)

	page1, next, err := repo.ListMessages(ctx, "chat1", nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "message 0", page1[0].Body)
	assert.Equal(t, "message 1", page1[1].Body)

	page2, next, err := repo.ListMessages(ctx, "chat1", next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, next)
	assert.Equal(t, "message 2", page2[0].Body)

	// last page is short and carries no token
	page3, next, err := repo.ListMessages(ctx, "chat1", next, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "message 4", page3[0].Body)
	assert.Nil(t, next)
}

func TestListMessagesRejectsBadToken(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewChatRepository(dbase)

	bad := "not-a-token"
	_, _, err := repo.ListMessages(ctx, "chat1", &bad, 2)
	assert.Error(t, err)
}
