// Package chat implements the chat gateway: an append-only message log per
// match, locked once the match is no longer anyone's exclusive pairing.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
)

type Service struct {
	appCtx      *app.AppContext
	chatRepo    *repository.ChatRepository
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		chatRepo:    repository.NewChatRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// membership loads the chat and its match and verifies the caller belongs
// to it, returning the other member's id.
func (s *Service) membership(ctx context.Context, callerID, chatID string) (*db.Chat, *db.Match, string, error) {
	c, err := s.chatRepo.GetByID(ctx, chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, "", apperr.ErrChatNotFound
	}
	if err != nil {
		return nil, nil, "", apperr.Store("load chat", chatID, err)
	}

	m, err := s.matchRepo.GetByID(ctx, c.MatchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, "", apperr.ErrMatchNotFound
	}
	if err != nil {
		return nil, nil, "", apperr.Store("load match", c.MatchID, err)
	}

	switch callerID {
	case m.UserA:
		return c, m, m.UserB, nil
	case m.UserB:
		return c, m, m.UserA, nil
	}
	return nil, nil, "", apperr.ErrNotMatchMember
}

// expiredForEither reports whether either member holds a confirmation for
// a different match. Recomputed on every send; expiry is never stored.
func (s *Service) expiredForEither(ctx context.Context, m *db.Match) (bool, error) {
	for _, member := range []string{m.UserA, m.UserB} {
		conf, err := s.matchRepo.AnyConfirmationFor(ctx, member)
		if err != nil {
			return false, apperr.Store("load confirmation", member, err)
		}
		if conf != nil && conf.MatchID != m.ID {
			return true, nil
		}
	}
	return false, nil
}

// SendMessage appends a message to the chat.
//
// Sending is blocked once the match is expired for either party: that is
// the strictest correct gate, stricter than locking only on finalization.
// After the durable append the message is published to the chat's Redis
// channel; fan-out is best-effort and never fails the call.
func (s *Service) SendMessage(ctx context.Context, callerID, chatID, body string) (*db.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Invalid("message body is required")
	}

	c, m, _, err := s.membership(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	locked, err := s.expiredForEither(ctx, m)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, apperr.ErrChatExpired
	}

	msg := &db.Message{
		ID:     uuid.NewString(),
		ChatID: c.ID,
		Sender: callerID,
		Body:   body,
	}
	if err := s.chatRepo.AppendMessage(ctx, msg); err != nil {
		return nil, apperr.Store("append message", c.ID, err)
	}

	if payload, err := json.Marshal(msg); err == nil {
		if err := s.appCtx.RedisCache.Publish(ctx, s.appCtx.RedisCache.ChannelForChat(c.ID), payload); err != nil {
			s.appCtx.Logger.Warn("message publish failed", "chat", c.ID, "err", err)
		}
	}

	return msg, nil
}

// GetMessages returns the chat history oldest first. limit <= 0 returns
// everything; otherwise the next-page token resumes after this page.
func (s *Service) GetMessages(ctx context.Context, callerID, chatID string, token *string, limit int) ([]db.Message, *string, error) {
	c, _, _, err := s.membership(ctx, callerID, chatID)
	if err != nil {
		return nil, nil, err
	}

	messages, next, err := s.chatRepo.ListMessages(ctx, c.ID, token, limit)
	if err != nil {
		return nil, nil, apperr.Store("list messages", c.ID, err)
	}
	return messages, next, nil
}

// Info describes a chat for its header: the other member and the
// confirmation state of the underlying match.
type Info struct {
	MatchID        string      `json:"match_id"`
	OtherProfile   *db.Profile `json:"other_profile,omitempty"`
	UserConfirmed  bool        `json:"user_confirmed"`
	OtherConfirmed bool        `json:"other_confirmed"`
	BothConfirmed  bool        `json:"both_confirmed"`
	IsExpired      bool        `json:"is_expired"`
}

// GetInfo returns chat header data for the caller.
func (s *Service) GetInfo(ctx context.Context, callerID, chatID string) (*Info, error) {
	_, m, otherID, err := s.membership(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	confs, err := s.matchRepo.Confirmations(ctx, m.ID)
	if err != nil {
		return nil, apperr.Store("load confirmations", m.ID, err)
	}

	info := &Info{MatchID: m.ID}
	for _, conf := range confs {
		if conf.Confirmer == callerID {
			info.UserConfirmed = true
		}
		if conf.Confirmer == otherID {
			info.OtherConfirmed = true
		}
	}
	info.BothConfirmed = info.UserConfirmed && info.OtherConfirmed

	if info.IsExpired, err = s.expiredForEither(ctx, m); err != nil {
		return nil, err
	}

	if other, err := s.profileRepo.GetByID(ctx, otherID); err == nil {
		info.OtherProfile = other
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Store("load profile", otherID, err)
	}

	return info, nil
}
