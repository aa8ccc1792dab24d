package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfcmatch/backend/internal/db"
)

// PoolRepository provides data access for pool configuration rows.
// Callers pass pool codes already normalized by the pool service.
type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(database *gorm.DB) *PoolRepository {
	return &PoolRepository{db: database}
}

// GetConfig returns the configuration row for a pool, or nil when none
// exists. Absence is not an error here; the service decides what it means.
func (r *PoolRepository) GetConfig(ctx context.Context, code string) (*db.PoolConfig, error) {
	var cfg db.PoolConfig
	err := r.db.WithContext(ctx).First(&cfg, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpsertStatus creates or updates a pool's status.
func (r *PoolRepository) UpsertStatus(ctx context.Context, code, status string) error {
	cfg := db.PoolConfig{Code: code, Status: status}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&cfg).Error
}

// UpsertDisplayCount creates or updates a pool's waiting-room counter.
func (r *PoolRepository) UpsertDisplayCount(ctx context.Context, code string, count int64) error {
	cfg := db.PoolConfig{Code: code, DisplayCount: count}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_count", "updated_at"}),
		}).
		Create(&cfg).Error
}

// CodeExists reports whether a configuration row exists for the code.
func (r *PoolRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.PoolConfig{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// CountSignups returns the true number of profiles carrying the pool code,
// as opposed to the display counter.
func (r *PoolRepository) CountSignups(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("dating_pool = ?", code).
		Count(&count).Error
	return count, err
}
