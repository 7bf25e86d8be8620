package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newFavoriteService(t *testing.T) (*FavoriteService, sqlmock.Sqlmock) {
	t.Helper()
	gormDB, mock := NewMockDB()
	svc := NewFavoriteService(FavoriteServiceOptions{
		DB:     gormDB,
		Logger: logger.NewDefaultLogger(logger.ErrorLevel),
	})
	return svc, mock
}

func TestFavoriteCreate(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectQuery(`SELECT \* FROM .favorites.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO .favorites.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	favorite, err := svc.Create("user-1", 1)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", favorite.UserID)
	assert.Equal(t, uint(1), favorite.ListingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteCreateDuplicate(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectQuery(`SELECT \* FROM .favorites.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "listing_id"}).AddRow(10, "user-1", 1))

	_, err := svc.Create("user-1", 1)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeDBDuplicate, appErr.Code)
	}
	assert.ErrorIs(t, err, errors.ErrFavoriteExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteCreateUnknownListing(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create("user-1", 99)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteDeleteMissing(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .favorites.`).
		WithArgs("user-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Delete("user-1", 1)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	}
	assert.ErrorIs(t, err, errors.ErrFavoriteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteDelete(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .favorites.`).
		WithArgs("user-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Delete("user-1", 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A favorite that outlived its listing must not surface as a ghost item.
func TestFavoriteListByUserSkipsDeletedListings(t *testing.T) {
	gormDB, mock := NewMockDB()
	server := newIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"host-1","name":"Ada","avatarUrl":""}]`))
	})
	svc := NewFavoriteService(FavoriteServiceOptions{
		DB:          gormDB,
		Aggregation: NewAggregationService(gormDB),
		Identity:    newIdentityService(server.URL),
		Logger:      logger.NewDefaultLogger(logger.ErrorLevel),
	})

	// Listing 2 was deleted; its favorite row is still in the ledger.
	mock.ExpectQuery(`SELECT \* FROM .favorites. WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "listing_id"}).
			AddRow(10, "user-1", 1).
			AddRow(11, "user-1", 2))
	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).AddRow(1, "host-1", "Loft"))
	mock.ExpectQuery(`SELECT \* FROM .listing_images.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT listing_id, COUNT\(\*\) AS total, SUM\(stars\) AS sum FROM .reviews.`).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "total", "sum"}))
	mock.ExpectQuery(`SELECT listing_id, COUNT\(\*\) AS total FROM .favorites.`).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "total"}).AddRow(1, 1))
	mock.ExpectQuery(`SELECT .listing_id. FROM .favorites.`).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, err := svc.ListByUser(context.Background(), "user-1")

	assert.NoError(t, err)
	if assert.Len(t, items, 1) {
		assert.Equal(t, uint(1), items[0].Listing.ID)
		assert.True(t, items[0].Favorite)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeDangling(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .favorites. WHERE listing_id NOT IN \(SELECT .id. FROM .listings.\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	deleted, err := svc.PurgeDangling()

	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeAnonymous(t *testing.T) {
	svc, mock := newFavoriteService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .favorites.`).
		WithArgs("").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := svc.PurgeAnonymous()

	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
