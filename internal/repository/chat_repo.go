package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/db"
	"github.com/pfcmatch/backend/internal/utils/pagination"
)

// ChatRepository provides data access for chats and their message log.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

// GetByID returns the chat or gorm.ErrRecordNotFound.
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*db.Chat, error) {
	var c db.Chat
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByMatch returns the chat belonging to a match.
func (r *ChatRepository) GetByMatch(ctx context.Context, matchID string) (*db.Chat, error) {
	var c db.Chat
	if err := r.db.WithContext(ctx).First(&c, "match_id = ?", matchID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AppendMessage durably appends one message row. Messages are immutable
// once created.
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns a chat's history oldest first.
//
// Behavior:
//   - limit <= 0 returns the full history in one page.
//   - Otherwise results are cursor-paginated: the returned token resumes
//     after the last message of this page.
func (r *ChatRepository) ListMessages(
	ctx context.Context,
	chatID string,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	var messages []db.Message

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("messages m").
		Where("m.chat_id = ?", chatID).
		Order("m.created_at ASC, m.id ASC")

	if cursor.MessageID != "" && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(m.created_at > ? OR (m.created_at = ? AND m.id > ?))",
			ts, ts, cursor.MessageID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if limit > 0 && len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MessageID:   last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
