// Package swipe implements the swipe reconciler: decision upsert, mutual
// like detection and idempotent match+chat creation.
package swipe

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
)

type Service struct {
	appCtx      *app.AppContext
	swipeRepo   *repository.SwipeRepository
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		swipeRepo:   repository.NewSwipeRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// Result is what a swipe call reports back.
type Result struct {
	Matched bool
	MatchID string
	ChatID  string
}

// Swipe records the caller's decision and reconciles mutual likes.
//
// Behavior:
//  1. Upsert the (caller, swipee) row; repeats overwrite the decision.
//  2. pass → done, no match check.
//  3. like → check the reciprocal like. When mutual, create the canonical
//     match and its chat. Two racing reconciliations of the same pair
//     converge on one match/chat via the unique pair index; both callers
//     get the same ids and neither sees an error.
func (s *Service) Swipe(ctx context.Context, callerID, swipeeID, decision string) (Result, error) {
	if decision != db.DecisionLike && decision != db.DecisionPass {
		return Result{}, apperr.Invalid("decision must be like or pass")
	}
	if swipeeID == "" || swipeeID == callerID {
		return Result{}, apperr.Invalid("cannot swipe on yourself")
	}

	if _, err := s.profileRepo.GetByID(ctx, swipeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, apperr.ErrProfileNotFound
		}
		return Result{}, apperr.Store("load swipee", swipeeID, err)
	}

	previous, err := s.swipeRepo.GetDecision(ctx, callerID, swipeeID)
	if err != nil {
		return Result{}, apperr.Store("load swipe", callerID+"->"+swipeeID, err)
	}

	if err := s.swipeRepo.Upsert(ctx, callerID, swipeeID, decision); err != nil {
		return Result{}, apperr.Store("upsert swipe", callerID+"->"+swipeeID, err)
	}

	// liked-you counter; best-effort, DB remains the source of truth.
	// Only an actual like transition moves it, so repeats cannot drift it.
	if decision != previous {
		key := s.appCtx.RedisCache.KeyForLikeCount(swipeeID)
		switch {
		case decision == db.DecisionLike:
			_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		case previous == db.DecisionLike:
			_, _ = s.appCtx.RedisCache.Decr(ctx, key)
		}
	}

	if decision == db.DecisionPass {
		return Result{}, nil
	}

	mutual, err := s.swipeRepo.HasLiked(ctx, swipeeID, callerID)
	if err != nil {
		return Result{}, apperr.Store("reciprocal check", swipeeID+"->"+callerID, err)
	}
	if !mutual {
		return Result{}, nil
	}

	match, chat, created, err := s.matchRepo.EnsureMatchWithChat(ctx, callerID, swipeeID)
	if err != nil {
		return Result{}, apperr.Store("create match", callerID+"/"+swipeeID, err)
	}
	if created {
		s.appCtx.Logger.Info("mutual like, match created",
			"match", match.ID, "user_a", match.UserA, "user_b", match.UserB)
	}

	return Result{Matched: true, MatchID: match.ID, ChatID: chat.ID}, nil
}

// LikedMeCount returns how many users liked the caller (excluding anyone
// the caller passed on). Cache-first with DB fallback.
func (s *Service) LikedMeCount(ctx context.Context, userID string) (int64, error) {
	if n, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && hit {
		return n, nil
	}

	count, err := s.swipeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, apperr.Store("count likers", userID, err)
	}
	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)
	return count, nil
}
