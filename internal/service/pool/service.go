// Package pool implements the pool registry: code normalization and
// validation, the waiting/active/paused gate, and the admin-controlled
// waiting-room counter.
package pool

import (
	"context"
	"strconv"
	"strings"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
)

// Service gates all matching activity per pool.
type Service struct {
	appCtx      *app.AppContext
	poolRepo    *repository.PoolRepository
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		poolRepo:    repository.NewPoolRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// Normalize is the single source of truth for pool code format:
// trimmed, lowercase. Every lookup and write goes through it.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// GetStatus resolves a pool's gating status.
//
// Absent configuration resolves to "waiting". Store failures also gate as
// "waiting" (the most restrictive useful state): a read error must never
// leak access to a paused or unstarted pool. They are logged, not returned.
func (s *Service) GetStatus(ctx context.Context, poolCode string) string {
	code := Normalize(poolCode)
	if code == "" {
		return db.PoolStatusWaiting
	}

	key := s.appCtx.RedisCache.KeyForPoolStatus(code)
	if cached, err := s.appCtx.RedisCache.Get(ctx, key); err == nil && isStatus(cached) {
		return cached
	}

	cfg, err := s.poolRepo.GetConfig(ctx, code)
	if err != nil {
		s.appCtx.Logger.Error("pool status read failed, gating as waiting", "pool", code, "err", err)
		return db.PoolStatusWaiting
	}

	status := db.PoolStatusWaiting
	if cfg != nil && isStatus(cfg.Status) {
		status = cfg.Status
	}

	_ = s.appCtx.RedisCache.Set(ctx, key, status, s.appCtx.Config.Pool.StatusCacheTTL)
	return status
}

// StatusForUser resolves the pool status of the caller's own pool.
func (s *Service) StatusForUser(ctx context.Context, userID string) (status, poolCode string, err error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", apperr.ErrProfileNotFound
	}
	return s.GetStatus(ctx, profile.DatingPool), profile.DatingPool, nil
}

// IsValidCode reports whether a pool code may be used at onboarding.
//
// A code is valid when it is the configured fallback code, has a
// configuration row, or is already carried by at least one profile (pools
// created ad hoc by the first signup). Invalid or failing lookups return
// false, never an error.
func (s *Service) IsValidCode(ctx context.Context, poolCode string) bool {
	code := Normalize(poolCode)
	if code == "" {
		return false
	}
	if code == Normalize(s.appCtx.Config.Pool.FallbackCode) {
		return true
	}

	exists, err := s.poolRepo.CodeExists(ctx, code)
	if err != nil {
		s.appCtx.Logger.Error("pool code lookup failed", "pool", code, "err", err)
		return false
	}
	if exists {
		return true
	}

	signups, err := s.poolRepo.CountSignups(ctx, code)
	if err != nil {
		s.appCtx.Logger.Error("pool signup lookup failed", "pool", code, "err", err)
		return false
	}
	return signups > 0
}

// SetStatus upserts a pool's status and invalidates the cached gate.
// Admin authority is enforced at the route boundary before any store access.
func (s *Service) SetStatus(ctx context.Context, poolCode, status string) error {
	code := Normalize(poolCode)
	if code == "" {
		return apperr.Invalid("pool code is required")
	}
	if !isStatus(status) {
		return apperr.Invalid("status must be waiting, active or paused")
	}

	if err := s.poolRepo.UpsertStatus(ctx, code, status); err != nil {
		return apperr.Store("set pool status", code, err)
	}

	// Write-through invalidation so feed gating sees the change promptly.
	_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForPoolStatus(code))

	s.appCtx.Logger.Info("pool status updated", "pool", code, "status", status)
	return nil
}

// GetDisplayCount returns the admin-controlled counter shown to waiting
// users. It is intentionally independent of the true signup count.
func (s *Service) GetDisplayCount(ctx context.Context, poolCode string) (int64, error) {
	code := Normalize(poolCode)

	key := s.appCtx.RedisCache.KeyForDisplayCount(code)
	if cached, err := s.appCtx.RedisCache.Get(ctx, key); err == nil && cached != "" {
		if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return n, nil
		}
	}

	cfg, err := s.poolRepo.GetConfig(ctx, code)
	if err != nil {
		return 0, apperr.Store("get display count", code, err)
	}
	var count int64
	if cfg != nil {
		count = cfg.DisplayCount
	}

	_ = s.appCtx.RedisCache.Set(ctx, key, strconv.FormatInt(count, 10), s.appCtx.Config.Pool.StatusCacheTTL)
	return count, nil
}

// SetDisplayCount upserts the waiting-room counter.
func (s *Service) SetDisplayCount(ctx context.Context, poolCode string, count int64) error {
	code := Normalize(poolCode)
	if code == "" {
		return apperr.Invalid("pool code is required")
	}
	if count < 0 {
		return apperr.Invalid("display count cannot be negative")
	}

	if err := s.poolRepo.UpsertDisplayCount(ctx, code, count); err != nil {
		return apperr.Store("set display count", code, err)
	}
	_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForDisplayCount(code))
	return nil
}

// GetSignupCount returns the true number of profiles in the pool. Callers
// must not conflate it with the display count.
func (s *Service) GetSignupCount(ctx context.Context, poolCode string) (int64, error) {
	code := Normalize(poolCode)
	count, err := s.poolRepo.CountSignups(ctx, code)
	if err != nil {
		return 0, apperr.Store("count signups", code, err)
	}
	return count, nil
}

func isStatus(s string) bool {
	switch s {
	case db.PoolStatusWaiting, db.PoolStatusActive, db.PoolStatusPaused:
		return true
	}
	return false
}
