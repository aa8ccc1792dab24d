// Package feed implements the candidate feed: preference-filtered pool
// members for swiping, plus the "review skipped" mode.
package feed

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
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// GetCandidates produces the caller's swipe feed.
//
// Normal mode: pool members the caller has not swiped on, inside the
// caller's age/height ranges (inclusive), restricted by the frat whitelist
// when non-empty, gender-filtered by the caller's interest, truncated to
// limit. Finalized profiles never appear.
//
// Review-skipped mode: every profile the caller previously passed on,
// still in the pool and not finalized; no preference filters, no limit.
//
// Missing profile or preferences is an error, not an empty feed. Store
// failures fail the whole call; a feed is never silently partial.
func (s *Service) GetCandidates(ctx context.Context, userID string, limit int, includeSkipped bool) ([]db.Profile, error) {
	caller, err := s.profileRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperr.Store("load profile", userID, err)
	}

	pref, err := s.profileRepo.GetPreference(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrPreferencesNotSet
	}
	if err != nil {
		return nil, apperr.Store("load preference", userID, err)
	}

	if includeSkipped {
		candidates, err := s.profileRepo.ListPassedCandidates(ctx, userID, caller.DatingPool)
		if err != nil {
			return nil, apperr.Store("list passed candidates", userID, err)
		}
		return candidates, nil
	}

	if limit <= 0 {
		limit = s.appCtx.Config.Feed.DefaultLimit
	}

	// Range, whitelist and swipe-history filters run in SQL; the
	// gender-interest filter runs here so the mutual-interest policy stays
	// swappable. Truncation happens after filtering.
	candidates, err := s.profileRepo.ListCandidates(ctx, repository.CandidateFilter{
		Pool:      caller.DatingPool,
		ExcludeID: userID,
		AgeMin:    pref.AgeMin,
		AgeMax:    pref.AgeMax,
		HeightMin: pref.HeightMin,
		HeightMax: pref.HeightMax,
		Whitelist: pref.FratWhitelist,
	})
	if err != nil {
		return nil, apperr.Store("list candidates", userID, err)
	}

	filtered := make([]db.Profile, 0, limit)
	for _, candidate := range candidates {
		if !s.interestMatch(caller, pref, &candidate) {
			continue
		}
		filtered = append(filtered, candidate)
		if len(filtered) == limit {
			break
		}
	}
	return filtered, nil
}

// interestMatch keeps a candidate iff the caller's interest admits the
// candidate's gender. With the mutual-interest policy enabled the
// candidate's own interest must admit the caller's gender too.
func (s *Service) interestMatch(caller *db.Profile, pref *db.Preference, candidate *db.Profile) bool {
	if pref.InterestedIn != db.InterestEveryone && pref.InterestedIn != candidate.Gender {
		return false
	}
	if s.appCtx.Config.Feed.MutualInterest {
		if candidate.InterestedIn != db.InterestEveryone && candidate.InterestedIn != caller.Gender {
			return false
		}
	}
	return true
}
