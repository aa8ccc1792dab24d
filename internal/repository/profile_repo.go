package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfcmatch/backend/internal/db"
)

// ProfileRepository provides data access for profiles and preferences.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetByID returns the profile or gorm.ErrRecordNotFound.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) UpdatePhotos(ctx context.Context, userID string, photos []string) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("id = ?", userID).
		Update("photos", photos).Error
}

// GetPreference returns the user's preference row or gorm.ErrRecordNotFound.
func (r *ProfileRepository) GetPreference(ctx context.Context, userID string) (*db.Preference, error) {
	var pref db.Preference
	if err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpsertPreference inserts or overwrites the user's filters.
func (r *ProfileRepository) UpsertPreference(ctx context.Context, pref *db.Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"age_min", "age_max", "height_min", "height_max",
				"interested_in", "frat_whitelist", "updated_at",
			}),
		}).
		Create(pref).Error
}

// CandidateFilter describes the normal-mode feed query. Gender-interest
// filtering happens in the feed service, not here.
type CandidateFilter struct {
	Pool      string
	ExcludeID string
	AgeMin    int
	AgeMax    int
	HeightMin int
	HeightMax int
	// Whitelist restricts frat tags when non-empty.
	Whitelist []string
	Limit     int
}

// ListCandidates returns non-finalized pool members inside the preference
// ranges that the caller has not swiped on yet.
//
// Range bounds are inclusive on both ends. Ordering is storage order; this
// system has no ranking score.
func (r *ProfileRepository) ListCandidates(ctx context.Context, f CandidateFilter) ([]db.Profile, error) {
	var candidates []db.Profile

	query := r.db.WithContext(ctx).
		Table("profiles p").
		Where("p.dating_pool = ?", f.Pool).
		Where("p.is_finalized = ?", false).
		Where("p.id <> ?", f.ExcludeID).
		Where("p.age BETWEEN ? AND ?", f.AgeMin, f.AgeMax).
		Where("p.height_cm BETWEEN ? AND ?", f.HeightMin, f.HeightMax).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.swiper_id = ?
				  AND s.swipee_id = p.id
			)`, f.ExcludeID)

	if len(f.Whitelist) > 0 {
		query = query.Where("p.frat IN ?", f.Whitelist)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListPassedCandidates returns the profiles the caller previously passed
// on, still in the pool and not finalized. No preference filters and no
// limit apply in this mode.
func (r *ProfileRepository) ListPassedCandidates(ctx context.Context, callerID, pool string) ([]db.Profile, error) {
	var candidates []db.Profile
	err := r.db.WithContext(ctx).
		Table("profiles p").
		Where("p.dating_pool = ?", pool).
		Where("p.is_finalized = ?", false).
		Where(`
			EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.swiper_id = ?
				  AND s.swipee_id = p.id
				  AND s.decision = ?
			)`, callerID, db.DecisionPass).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// DeleteUserData removes the user's profile, preferences, swipes in both
// directions, and confirmations. Match, chat and message rows remain; the
// pair history is permanent.
func (r *ProfileRepository) DeleteUserData(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("confirmer = ?", userID).Delete(&db.DateConfirmation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("swiper_id = ? OR swipee_id = ?", userID, userID).Delete(&db.Swipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.Preference{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&db.Profile{}).Error
	})
}
