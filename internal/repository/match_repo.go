package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
)

// MatchRepository provides data access for matches, chats and date
// confirmations.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CanonicalPair orders two user ids under lexicographic string order so
// (a,b) and (b,a) collapse to one storage row.
func CanonicalPair(x, y string) (userA, userB string) {
	if strings.Compare(x, y) > 0 {
		return y, x
	}
	return x, y
}

// EnsureMatchWithChat creates the match row for the canonical pair and its
// chat, converging with any concurrent reconciliation of the same pair.
//
// Behavior:
//   - Insert uses OnConflict DoNothing against the unique pair index, then
//     re-reads the row, so two racing callers both end up with the same
//     match id. No in-process lock is involved; multiple instances are safe.
//   - The chat insert converges the same way against the unique match_id
//     index.
//   - `created` reports whether this call inserted the match row.
func (r *MatchRepository) EnsureMatchWithChat(ctx context.Context, x, y string) (match *db.Match, chat *db.Chat, created bool, err error) {
	userA, userB := CanonicalPair(x, y)

	candidate := db.Match{ID: uuid.NewString(), UserA: userA, UserB: userB}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if res.Error != nil {
		return nil, nil, false, res.Error
	}
	created = res.RowsAffected > 0

	// Re-read regardless: on conflict the winning row has a different id.
	var m db.Match
	if err := r.db.WithContext(ctx).
		First(&m, "user_a = ? AND user_b = ?", userA, userB).Error; err != nil {
		return nil, nil, false, err
	}

	c := db.Chat{ID: uuid.NewString(), MatchID: m.ID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}},
			DoNothing: true,
		}).
		Create(&c).Error; err != nil {
		return nil, nil, false, err
	}
	var existing db.Chat
	if err := r.db.WithContext(ctx).First(&existing, "match_id = ?", m.ID).Error; err != nil {
		return nil, nil, false, err
	}

	return &m, &existing, created, nil
}

// GetByID returns the match or gorm.ErrRecordNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns every match involving the user, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Confirmations returns all confirmation rows for a match.
func (r *MatchRepository) Confirmations(ctx context.Context, matchID string) ([]db.DateConfirmation, error) {
	var confs []db.DateConfirmation
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Find(&confs).Error
	if err != nil {
		return nil, err
	}
	return confs, nil
}

// AnyConfirmationFor returns the user's confirmation row if one exists
// anywhere, or nil. A user holds at most one (first confirmation commits
// them for the pool run).
func (r *MatchRepository) AnyConfirmationFor(ctx context.Context, userID string) (*db.DateConfirmation, error) {
	var conf db.DateConfirmation
	err := r.db.WithContext(ctx).First(&conf, "confirmer = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// ConfirmDate records the caller's confirmation of a match and, when it is
// the second one, finalizes both members.
//
// The whole sequence runs in one transaction built on locking reads:
//   - the match row is re-read FOR UPDATE, so two confirmers of the same
//     match execute the count strictly one after the other and the second
//     one reliably observes count=2 and finalizes;
//   - the one-confirmation-ever check is also a locking read, so the same
//     user confirming two different matches concurrently serializes on the
//     confirmer index instead of both inserts slipping past a snapshot;
//   - any existing confirmation elsewhere → ErrAlreadyConfirmedElsewhere,
//     for this match → ErrAlreadyConfirmed;
//   - otherwise insert; at 2 confirmations set is_finalized on both
//     profiles (idempotent update, monotonic flag).
func (r *MatchRepository) ConfirmDate(ctx context.Context, match *db.Match, confirmer string) (bothConfirmed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m db.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", match.ID).Error; err != nil {
			return err
		}

		var existing db.DateConfirmation
		findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "confirmer = ?", confirmer).Error
		switch {
		case findErr == nil:
			if existing.MatchID == m.ID {
				return apperr.ErrAlreadyConfirmed
			}
			return apperr.ErrAlreadyConfirmedElsewhere
		case !errors.Is(findErr, gorm.ErrRecordNotFound):
			return findErr
		}

		conf := db.DateConfirmation{MatchID: m.ID, Confirmer: confirmer}
		if err := tx.Create(&conf).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&db.DateConfirmation{}).
			Where("match_id = ?", m.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count < 2 {
			return nil
		}

		bothConfirmed = true
		return tx.Model(&db.Profile{}).
			Where("id IN ?", []string{m.UserA, m.UserB}).
			Update("is_finalized", true).Error
	})
	return bothConfirmed, err
}
