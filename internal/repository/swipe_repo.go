package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfcmatch/backend/internal/db"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to like/pass decisions between users.
type SwipeRepository struct {
	db *gorm.DB
}

func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Upsert inserts or updates the decision made by swiper -> swipee.
//
// Behavior:
//   - If the (swiper, swipee) pair exists → the row is updated with the
//     new decision.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures the overwrite guarantee: never two rows per pair.
func (r *SwipeRepository) Upsert(ctx context.Context, swiperID, swipeeID, decision string) error {
	swipe := db.Swipe{
		SwiperID: swiperID,
		SwipeeID: swipeeID,
		Decision: decision,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "swipee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
		}).
		Create(&swipe).Error
}

// GetDecision returns the decision swiper recorded on swipee, or "" when
// the pair has never been swiped.
func (r *SwipeRepository) GetDecision(ctx context.Context, swiperID, swipeeID string) (string, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		First(&swipe, "swiper_id = ? AND swipee_id = ?", swiperID, swipeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return swipe.Decision, nil
}

// HasLiked checks whether swiper has a recorded "like" on swipee.
// Used for the reciprocal check during reconciliation.
func (r *SwipeRepository) HasLiked(ctx context.Context, swiperID, swipeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swipee_id = ? AND decision = ?", swiperID, swipeeID, db.DecisionLike).
		Count(&count).Error
	return count > 0, err
}

// CountLikers returns how many users liked the given user, excluding
// anyone that user explicitly passed on. Used with the Redis counter
// (DB is the fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swipee_id = ? AND s.decision = ?", userID, db.DecisionLike).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swipee_id = s.swiper_id
				  AND s2.decision = ?
			)`, userID, db.DecisionPass).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
