package profile_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/cache"
	"github.com/pfcmatch/backend/internal/config"
	"github.com/pfcmatch/backend/internal/db"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/service/profile"
	"github.com/pfcmatch/backend/internal/storage"
)

func setupService(t *testing.T) (*profile.Service, *app.AppContext, *storage.MemoryUploader) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Pool.FallbackCode = "abc123"

	redisCache := cache.NewRedisCache(cfg)
	uploader := storage.NewMemoryUploader()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(cfg, dbase, redisCache, uploader, nil, nil, logger)
	return profile.NewService(appCtx), appCtx, uploader
}

func validInput() profile.CreateInput {
	return profile.CreateInput{
		Name:         "Jamie",
		Age:          21,
		Gender:       db.GenderMen,
		Frat:         "alpha",
		HeightCM:     180,
		InterestedIn: db.InterestWomen,
		OneLiner:     "hi",
		Photos:       []string{"p1", "p2", "p3"},
		PoolCode:     " ABC123 ",
	}
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	p, err := svc.Create(ctx, "u1", "u1@test.com", validInput())
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	// pool codes are stored normalized
	assert.Equal(t, "abc123", p.DatingPool)
	assert.False(t, p.IsFinalized)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jamie", got.Name)
}

func TestCreateProfileValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	cases := []struct {
		name   string
		mutate func(*profile.CreateInput)
	}{
		{"empty name", func(in *profile.CreateInput) { in.Name = "  " }},
		{"underage", func(in *profile.CreateInput) { in.Age = 17 }},
		{"bad gender", func(in *profile.CreateInput) { in.Gender = "other" }},
		{"bad interest", func(in *profile.CreateInput) { in.InterestedIn = "nobody" }},
		{"too few photos", func(in *profile.CreateInput) { in.Photos = []string{"p1"} }},
		{"bad pool code", func(in *profile.CreateInput) { in.PoolCode = "nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, "u1", "u1@test.com", in)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestCreateProfileRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Create(ctx, "u1", "u1@test.com", validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, "u1", "u1@test.com", validInput())
	assert.ErrorIs(t, err, apperr.ErrProfileExists)
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	svc, _, uploader := setupService(t)

	url, err := svc.UploadPhoto(ctx, "u1", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, url, "photos/u1/")
	assert.Len(t, uploader.Objects, 1)

	_, err = svc.UploadPhoto(ctx, "u1", []byte("gif-bytes"), "image/gif")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.UploadPhoto(ctx, "u1", nil, "image/png")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.UploadPhoto(ctx, "u1", bytes.Repeat([]byte("x"), profile.MaxPhotoSize+1), "image/png")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpdatePhotos(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Create(ctx, "u1", "u1@test.com", validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdatePhotos(ctx, "u1", []string{"one"}), apperr.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdatePhotos(ctx, "ghost", []string{"a", "b", "c"}), apperr.ErrProfileNotFound)

	require.NoError(t, svc.UpdatePhotos(ctx, "u1", []string{"a", "b", "c"}))
	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, p.Photos)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Create(ctx, "u1", "u1@test.com", validInput())
	require.NoError(t, err)

	_, err = svc.GetPreference(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrPreferencesNotSet)

	in := profile.PreferenceInput{
		AgeMin: 19, AgeMax: 25, HeightMin: 150, HeightMax: 200,
		InterestedIn: db.InterestWomen, FratWhitelist: []string{"alpha"},
	}
	require.NoError(t, svc.SetPreference(ctx, "u1", in))

	pref, err := svc.GetPreference(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 19, pref.AgeMin)
	assert.Equal(t, []string{"alpha"}, pref.FratWhitelist)

	// invalid ranges
	in.AgeMax = 18
	assert.ErrorIs(t, svc.SetPreference(ctx, "u1", in), apperr.ErrInvalidInput)
	in.AgeMax = 25
	in.HeightMax = 100
	assert.ErrorIs(t, svc.SetPreference(ctx, "u1", in), apperr.ErrInvalidInput)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Create(ctx, "u1", "u1@test.com", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, "u1"))

	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrProfileNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, "u1"), apperr.ErrProfileNotFound)
}
