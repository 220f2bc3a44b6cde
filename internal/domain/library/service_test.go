package library_test

import (
	"context"
	"testing"
	"time"

	"streaming-app/internal/apperr"
	"streaming-app/internal/dbtest"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/library"
	"streaming-app/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *library.Service
	owner   accounts.Account
	other   accounts.Account
	profile accounts.Profile
	movie   catalog.Content
}

func setup(t *testing.T) fixture {
	db := dbtest.Open(t)
	f := fixture{db: db, svc: library.NewService(db, logging.Discard())}

	f.owner = accounts.Account{Email: "owner@example.com", PasswordHash: "x"}
	f.other = accounts.Account{Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&f.owner).Error)
	require.NoError(t, db.Create(&f.other).Error)

	f.profile = accounts.Profile{AccountID: f.owner.ID, Name: "John", AgeRatingPref: "PG-13"}
	require.NoError(t, db.Create(&f.profile).Error)

	f.movie = catalog.Content{Title: "Movie", Type: catalog.TypeMovie, Description: "d", ReleaseYear: 2024}
	require.NoError(t, db.Create(&f.movie).Error)
	return f
}

func TestWishlist(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddToWishlist(ctx, f.owner.ID, f.profile.ID, f.movie.ID))
	require.NoError(t, f.svc.AddToWishlist(ctx, f.owner.ID, f.profile.ID, f.movie.ID))

	items, err := f.svc.Wishlist(ctx, f.owner.ID, f.profile.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Movie", items[0].Title)

	err = f.svc.AddToWishlist(ctx, f.owner.ID, f.profile.ID, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.svc.Wishlist(ctx, f.other.ID, f.profile.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, f.svc.RemoveFromWishlist(ctx, f.owner.ID, f.profile.ID, f.movie.ID))
	items, err = f.svc.Wishlist(ctx, f.owner.ID, f.profile.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpsertHistoryKeepsOneRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID, 120)
	require.NoError(t, err)
	_, err = f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID, 360)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&library.ViewingHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	item, err := f.svc.HistoryItem(ctx, f.owner.ID, f.profile.ID, f.movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(360), item.LastTimestamp)

	history, err := f.svc.History(ctx, f.owner.ID, f.profile.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(360), history[0].LastTimestamp)
}

func TestUpsertHistoryValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID, -1)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	_, err = f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, 999, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.svc.UpsertHistory(ctx, f.other.ID, f.profile.ID, f.movie.ID, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = f.svc.HistoryItem(ctx, f.owner.ID, f.profile.ID, f.movie.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID, 42)
	require.NoError(t, err)

	err = f.svc.DeleteHistory(ctx, f.other.ID, f.profile.ID, f.movie.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, f.svc.DeleteHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID))
	history, err := f.svc.History(ctx, f.owner.ID, f.profile.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProfileDeletionRemovesLibrary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddToWishlist(ctx, f.owner.ID, f.profile.ID, f.movie.ID))
	_, err := f.svc.UpsertHistory(ctx, f.owner.ID, f.profile.ID, f.movie.ID, time.Minute.Milliseconds())
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&accounts.Account{}, "account_id = ?", f.owner.ID).Error)

	var wishlist, history int64
	require.NoError(t, f.db.Model(&library.WishlistEntry{}).Count(&wishlist).Error)
	require.NoError(t, f.db.Model(&library.ViewingHistory{}).Count(&history).Error)
	assert.Zero(t, wishlist)
	assert.Zero(t, history)
}
