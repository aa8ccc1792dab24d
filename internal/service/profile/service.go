// Package profile implements onboarding, the preference store, photo
// upload via the storage collaborator, and account deletion.
package profile

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/repository"
	"github.com/pfcmatch/backend/internal/service/pool"
)

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MaxPhotoSize caps a single uploaded photo at 5MB.
const MaxPhotoSize = 5 << 20

type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	pools       *pool.Service
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		pools:       pool.NewService(appCtx),
	}
}

// CreateInput is the onboarding payload. Photos are URLs previously
// returned by UploadPhoto.
type CreateInput struct {
	Name         string
	Age          int
	Gender       string
	Frat         string
	HeightCM     int
	InterestedIn string
	OneLiner     string
	Photos       []string
	PoolCode     string
}

// Create builds the caller's profile. A profile belongs to exactly one
// pool for its lifetime, so the pool code is validated here and never
// updated afterwards.
func (s *Service) Create(ctx context.Context, userID, email string, in CreateInput) (*db.Profile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}
	if in.Age < db.MinAge {
		return nil, apperr.Invalid(fmt.Sprintf("you must be at least %d", db.MinAge))
	}
	if in.Gender != db.GenderMen && in.Gender != db.GenderWomen {
		return nil, apperr.Invalid("gender must be men or women")
	}
	if !validInterest(in.InterestedIn) {
		return nil, apperr.Invalid("interested_in must be men, women or everyone")
	}
	if len(in.Photos) != db.MaxPhotos {
		return nil, apperr.Invalid(fmt.Sprintf("exactly %d photos are required", db.MaxPhotos))
	}
	if !s.pools.IsValidCode(ctx, in.PoolCode) {
		return nil, apperr.Invalid("invalid pool code")
	}

	if _, err := s.profileRepo.GetByID(ctx, userID); err == nil {
		return nil, apperr.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Store("load profile", userID, err)
	}

	profile := &db.Profile{
		ID:           userID,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       in.Gender,
		Frat:         strings.TrimSpace(in.Frat),
		HeightCM:     in.HeightCM,
		InterestedIn: in.InterestedIn,
		OneLiner:     in.OneLiner,
		Photos:       in.Photos,
		DatingPool:   pool.Normalize(in.PoolCode),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperr.Store("create profile", userID, err)
	}

	s.appCtx.Logger.Info("profile created", "user", userID, "pool", profile.DatingPool)
	return profile, nil
}

// Get returns a profile by id.
func (s *Service) Get(ctx context.Context, id string) (*db.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperr.Store("load profile", id, err)
	}
	return p, nil
}

// UploadPhoto stores one photo through the storage collaborator and
// returns its durable URL. The profile's photo list itself is set at
// onboarding or via UpdatePhotos.
func (s *Service) UploadPhoto(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	ext, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	if !ok {
		return "", apperr.Invalid("only JPG, PNG and WebP images are allowed")
	}
	if len(data) == 0 {
		return "", apperr.Invalid("empty photo upload")
	}
	if len(data) > MaxPhotoSize {
		return "", apperr.Invalid("image must be less than 5MB")
	}

	objectPath := path.Join("photos", userID, uuid.NewString()+ext)
	url, err := s.appCtx.Storage.Upload(ctx, objectPath, data, contentType)
	if err != nil {
		return "", apperr.Store("upload photo", objectPath, err)
	}
	return url, nil
}

// UpdatePhotos replaces the caller's photo list.
func (s *Service) UpdatePhotos(ctx context.Context, userID string, photos []string) error {
	if len(photos) != db.MaxPhotos {
		return apperr.Invalid(fmt.Sprintf("exactly %d photos are required", db.MaxPhotos))
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.UpdatePhotos(ctx, userID, photos); err != nil {
		return apperr.Store("update photos", userID, err)
	}
	return nil
}

// PreferenceInput carries the owner's feed filters.
type PreferenceInput struct {
	AgeMin        int
	AgeMax        int
	HeightMin     int
	HeightMax     int
	InterestedIn  string
	FratWhitelist []string
}

// SetPreference upserts the caller's filters.
func (s *Service) SetPreference(ctx context.Context, userID string, in PreferenceInput) error {
	if in.AgeMin < db.MinAge || in.AgeMax < in.AgeMin {
		return apperr.Invalid("invalid age range")
	}
	if in.HeightMin <= 0 || in.HeightMax < in.HeightMin {
		return apperr.Invalid("invalid height range")
	}
	if !validInterest(in.InterestedIn) {
		return apperr.Invalid("interested_in must be men, women or everyone")
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	pref := &db.Preference{
		UserID:        userID,
		AgeMin:        in.AgeMin,
		AgeMax:        in.AgeMax,
		HeightMin:     in.HeightMin,
		HeightMax:     in.HeightMax,
		InterestedIn:  in.InterestedIn,
		FratWhitelist: in.FratWhitelist,
	}
	if err := s.profileRepo.UpsertPreference(ctx, pref); err != nil {
		return apperr.Store("upsert preference", userID, err)
	}
	return nil
}

// GetPreference returns the caller's filters.
func (s *Service) GetPreference(ctx context.Context, userID string) (*db.Preference, error) {
	pref, err := s.profileRepo.GetPreference(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrPreferencesNotSet
	}
	if err != nil {
		return nil, apperr.Store("load preference", userID, err)
	}
	return pref, nil
}

// DeleteAccount permanently removes the caller's data. Match and message
// rows survive; the other member keeps their history.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteUserData(ctx, userID); err != nil {
		return apperr.Store("delete account", userID, err)
	}
	_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForLikeCount(userID))
	s.appCtx.Logger.Info("account deleted", "user", userID)
	return nil
}

func validInterest(v string) bool {
	switch v {
	case db.InterestMen, db.InterestWomen, db.InterestEveryone:
		return true
	}
	return false
}
