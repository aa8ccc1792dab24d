// Package match implements the match lifecycle: date confirmation,
// finalization of both members, and derived expiry.
package match

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
)

type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	chatRepo    *repository.ChatRepository
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		chatRepo:    repository.NewChatRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// ConfirmDate records the caller's confirmation of a match.
//
// The first match a user confirms is binding for the pool run: a
// confirmation held anywhere else rejects with AlreadyConfirmedElsewhere,
// a repeat on the same match with AlreadyConfirmed. When this call is the
// second confirmation, both members are finalized exactly once.
func (s *Service) ConfirmDate(ctx context.Context, callerID, matchID string) (bothConfirmed bool, err error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperr.ErrMatchNotFound
	}
	if err != nil {
		return false, apperr.Store("load match", matchID, err)
	}
	if callerID != m.UserA && callerID != m.UserB {
		return false, apperr.ErrNotMatchMember
	}

	both, err := s.matchRepo.ConfirmDate(ctx, m, callerID)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyConfirmed) || errors.Is(err, apperr.ErrAlreadyConfirmedElsewhere) {
			return false, err
		}
		return false, apperr.Store("confirm date", matchID, err)
	}

	if both {
		s.appCtx.Logger.Info("match finalized", "match", m.ID, "user_a", m.UserA, "user_b", m.UserB)
	}
	return both, nil
}

// Detail is one of the caller's matches annotated for display.
type Detail struct {
	Match          db.Match    `json:"match"`
	ChatID         string      `json:"chat_id,omitempty"`
	OtherProfile   *db.Profile `json:"other_profile,omitempty"`
	UserConfirmed  bool        `json:"user_confirmed"`
	OtherConfirmed bool        `json:"other_confirmed"`
	Status         string      `json:"status"`
	IsExpired      bool        `json:"is_expired"`
	ExpiredReason  string      `json:"expired_reason,omitempty"`
}

// GetMatchesForUser returns every match involving the user, partitioned
// into active and expired. Expiry is recomputed from the confirmation
// table on every call; nothing about it is stored.
func (s *Service) GetMatchesForUser(ctx context.Context, userID string) (active, expired []Detail, err error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, nil, apperr.Store("list matches", userID, err)
	}

	// One confirmation lookup per member; a user appears in several
	// matches but holds at most one confirmation.
	anyConf := map[string]*db.DateConfirmation{}
	lookup := func(id string) (*db.DateConfirmation, error) {
		if conf, ok := anyConf[id]; ok {
			return conf, nil
		}
		conf, err := s.matchRepo.AnyConfirmationFor(ctx, id)
		if err != nil {
			return nil, err
		}
		anyConf[id] = conf
		return conf, nil
	}

	active = []Detail{}
	expired = []Detail{}
	for _, m := range matches {
		otherID := m.UserA
		if otherID == userID {
			otherID = m.UserB
		}

		confs, err := s.matchRepo.Confirmations(ctx, m.ID)
		if err != nil {
			return nil, nil, apperr.Store("load confirmations", m.ID, err)
		}
		callerAny, err := lookup(userID)
		if err != nil {
			return nil, nil, apperr.Store("load confirmation", userID, err)
		}
		otherAny, err := lookup(otherID)
		if err != nil {
			return nil, nil, apperr.Store("load confirmation", otherID, err)
		}

		detail := Detail{Match: m}

		// The other member may have deleted their account; the match row
		// survives without a profile to show.
		if other, err := s.profileRepo.GetByID(ctx, otherID); err == nil {
			detail.OtherProfile = other
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Store("load profile", otherID, err)
		}

		if chat, err := s.chatRepo.GetByMatch(ctx, m.ID); err == nil {
			detail.ChatID = chat.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Store("load chat", m.ID, err)
		}

		for _, conf := range confs {
			if conf.Confirmer == userID {
				detail.UserConfirmed = true
			}
			if conf.Confirmer == otherID {
				detail.OtherConfirmed = true
			}
		}

		status := Derive(m.ID, confs, callerAny, otherAny)
		detail.Status = status.String()
		if status == StatusExpired {
			detail.IsExpired = true
			detail.ExpiredReason = expiredReason(m.ID, userID, callerAny, otherAny, detail.OtherProfile)
			expired = append(expired, detail)
			continue
		}
		active = append(active, detail)
	}

	return active, expired, nil
}

func expiredReason(matchID, userID string, callerAny, otherAny *db.DateConfirmation, other *db.Profile) string {
	if otherAny != nil && otherAny.MatchID != matchID {
		name := "They"
		if other != nil {
			name = other.Name
		}
		return fmt.Sprintf("%s matched with someone else", name)
	}
	if callerAny != nil && callerAny.MatchID != matchID {
		return "You matched with someone else"
	}
	return ""
}
